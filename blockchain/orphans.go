// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
)

const (
	// maxOrphanBlocks is the maximum number of orphan blocks that can be
	// queued.
	maxOrphanBlocks = 100

	// orphanExpiration is how long an orphan block may sit in the pool
	// before being evicted.
	orphanExpiration = time.Hour
)

// orphanBlock represents a block for which the parent is not yet available.
// It is used as an element of the orphan pool.
type orphanBlock struct {
	block      *util.Block
	expiration time.Time
}

// IsKnownOrphan returns whether the passed hash is currently a known orphan.
//
// This function is safe for concurrent access.
func (b *Blockchain) IsKnownOrphan(hash *chainhash.Hash) bool {
	b.orphanLock.RLock()
	_, exists := b.orphans[*hash]
	b.orphanLock.RUnlock()
	return exists
}

// removeOrphanBlock removes the passed orphan block from the orphan pool and
// parent map.
func (b *Blockchain) removeOrphanBlock(orphan *orphanBlock) {
	b.orphanLock.Lock()
	defer b.orphanLock.Unlock()

	orphanHash := orphan.block.Hash()
	delete(b.orphans, *orphanHash)

	// Remove the reference from the parent map. An indexing for loop is
	// intentionally used over a range here as range does not reevaluate
	// the slice on each iteration nor does it adjust the index for the
	// modified slice.
	parentHash := &orphan.block.Header().PrevBlock
	orphans := b.prevOrphans[*parentHash]
	for i := 0; i < len(orphans); i++ {
		hash := orphans[i].block.Hash()
		if hash.IsEqual(orphanHash) {
			orphans = append(orphans[:i], orphans[i+1:]...)
			i--
		}
	}
	b.prevOrphans[*parentHash] = orphans

	// Remove the map entry altogether if there are no longer any orphans
	// which depend on the parent hash.
	if len(b.prevOrphans[*parentHash]) == 0 {
		delete(b.prevOrphans, *parentHash)
	}
}

// addOrphanBlock adds the passed block (which is already determined to be an
// orphan prior to calling this function) to the orphan pool. It lazily
// cleans up any expired blocks so a separate cleanup poller doesn't need to
// be run. It also imposes a maximum limit on the number of outstanding
// orphan blocks and will remove the oldest received orphan block if the
// limit is exceeded.
func (b *Blockchain) addOrphanBlock(block *util.Block) {
	// Remove expired orphan blocks.
	now := b.timeSource()
	for _, oBlock := range b.orphans {
		if now.After(oBlock.expiration) {
			b.removeOrphanBlock(oBlock)
			continue
		}

		// Update the oldest orphan block pointer so it can be discarded
		// in case the orphan pool fills up.
		if b.oldestOrphan == nil ||
			oBlock.expiration.Before(b.oldestOrphan.expiration) {
			b.oldestOrphan = oBlock
		}
	}

	// Limit orphan blocks to prevent memory exhaustion.
	if len(b.orphans)+1 > maxOrphanBlocks {
		// Remove the oldest orphan to make room for the new one.
		b.removeOrphanBlock(b.oldestOrphan)
		b.oldestOrphan = nil
	}

	b.orphanLock.Lock()
	defer b.orphanLock.Unlock()

	oBlock := &orphanBlock{
		block:      block,
		expiration: now.Add(orphanExpiration),
	}
	b.orphans[*block.Hash()] = oBlock

	// Add to parent hash lookup index for faster dependency lookups.
	prevHash := &block.Header().PrevBlock
	b.prevOrphans[*prevHash] = append(b.prevOrphans[*prevHash], oBlock)
}

// processOrphans determines if there are any orphans which depend on the
// passed block hash (they are no longer orphans if true) and potentially
// accepts them. It repeats the process for the newly accepted blocks (to
// detect further orphans which may no longer be orphans) until there are no
// more.
//
// This function MUST be called with the chain lock held.
func (b *Blockchain) processOrphans(hash *chainhash.Hash) error {
	// Start with processing at least the passed hash. Note that the slice
	// will grow while the loop is running.
	processHashes := []*chainhash.Hash{hash}
	for len(processHashes) > 0 {
		processHash := processHashes[0]
		processHashes = processHashes[1:]

		// Look up all orphans associated with the provided hash. An
		// indexing for loop is intentionally used over a range here as
		// range does not reevaluate the slice on each iteration nor does
		// it adjust the index for the modified slice.
		for i := 0; i < len(b.prevOrphans[*processHash]); i++ {
			orphan := b.prevOrphans[*processHash][i]
			if orphan == nil {
				log.Warnf("Found a nil entry at index %d in the orphan "+
					"dependency list for block %s", i, processHash)
				continue
			}

			// Remove the orphan from the orphan pool.
			orphanHash := orphan.block.Hash()
			b.removeOrphanBlock(orphan)
			i--

			// Potentially accept the block into the block chain.
			_, err := b.maybeAcceptBlock(orphan.block)
			if err != nil {
				// An invalid former orphan poisons only itself; keep
				// processing its siblings.
				if _, ok := err.(RuleError); ok {
					log.Infof("Rejected former orphan block %s: %s",
						orphanHash, err)
					continue
				}
				return err
			}

			// Add this block to the list of blocks to process so any
			// orphan blocks that depend on this block are handled too.
			processHashes = append(processHashes, orphanHash)
		}
	}
	return nil
}
