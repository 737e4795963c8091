// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/embercoin/emberd/util"
)

// ProcessResult describes how a valid block was incorporated into the chain.
// Invalid blocks do not get a result; they are reported through a RuleError
// instead.
type ProcessResult byte

const (
	// ResultExtended indicates the block extended the main chain tip.
	ResultExtended ProcessResult = iota

	// ResultRebranched indicates the block made a side branch overtake the
	// main chain, which was reorganized onto it.
	ResultRebranched

	// ResultIgnored indicates the block was a duplicate, or landed on a
	// side branch with less cumulative work than the main chain. The
	// block is kept so the branch can still overtake later.
	ResultIgnored

	// ResultOrphan indicates the block's parent is unknown. The block was
	// put aside and will be revisited when its parent arrives.
	ResultOrphan
)

// String returns the ProcessResult as a human-readable name.
func (r ProcessResult) String() string {
	switch r {
	case ResultExtended:
		return "extended"
	case ResultRebranched:
		return "rebranched"
	case ResultIgnored:
		return "ignored"
	case ResultOrphan:
		return "orphan"
	}
	return fmt.Sprintf("unknown result (%d)", byte(r))
}

// maybeAcceptBlock potentially accepts a block whose parent is already known
// into the block chain, performing the contextual validation and deciding
// between extending the main chain, rebranching to the block's branch, and
// keeping the block on a side branch.
//
// This function MUST be called with the chain lock held.
func (b *Blockchain) maybeAcceptBlock(block *util.Block) (ProcessResult, error) {
	parent, err := b.nodeByHash(&block.Header().PrevBlock)
	if err != nil {
		return 0, err
	}
	if parent == nil {
		return 0, errors.Errorf("maybeAcceptBlock called with unknown "+
			"parent %s", &block.Header().PrevBlock)
	}

	if err := b.checkBlockContext(block, parent); err != nil {
		return 0, err
	}

	node := newBlockNode(block, parent)

	// The common case: the block builds on the current head and simply
	// extends the main chain.
	if parent == b.headNode {
		err := b.applyBodies(&parent.accountsHash, []*util.Block{block})
		if err != nil {
			return 0, err
		}
		if err := b.storage.PutBlock(block); err != nil {
			return 0, err
		}
		b.index.AddNode(node)
		if err := b.connectBlock(node); err != nil {
			return 0, err
		}

		log.Debugf("Block %s extends the chain to height %d", node.hash,
			node.height)
		return ResultExtended, nil
	}

	// The block is on a side branch. It wins if its branch carries
	// strictly more cumulative work than the main chain; on an exact tie
	// the tip with the numerically smaller hash wins, so that all nodes
	// resolve the tie identically.
	cmp := node.workSum.Cmp(b.headNode.workSum)
	rebranch := cmp > 0 || (cmp == 0 && node.hash.Less(b.headNode.hash))

	if !rebranch {
		if err := b.storage.PutBlock(block); err != nil {
			return 0, err
		}
		b.index.AddNode(node)

		log.Debugf("Block %s stored on a side branch at height %d "+
			"(work %v vs %v)", node.hash, node.height, node.workSum,
			b.headNode.workSum)
		return ResultIgnored, nil
	}

	// The side branch overtakes the main chain. Validation of the branch
	// bodies happens inside the reorganization; a branch that fails leaves
	// the chain on the current head and the failing block unsaved.
	if err := b.reorganizeChain(node, block); err != nil {
		return 0, err
	}
	if err := b.storage.PutBlock(block); err != nil {
		return 0, err
	}
	b.index.AddNode(node)

	return ResultRebranched, nil
}

// ProcessBlock is the main workhorse for handling insertion of new blocks
// into the block chain. It includes functionality such as rejecting
// duplicate blocks, ensuring blocks follow all rules, orphan handling, and
// insertion into the block chain along with best chain selection and
// reorganization.
//
// The returned ProcessResult describes how the block was incorporated. A
// block that violates a validation rule is reported through an error of type
// RuleError and leaves the chain untouched.
//
// This function is safe for concurrent access.
func (b *Blockchain) ProcessBlock(block *util.Block) (ProcessResult, error) {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	blockHash := block.Hash()
	log.Tracef("Processing block %s", blockHash)

	// The block must not already exist in the chain or in the orphan pool.
	if b.index.HaveBlock(blockHash) {
		log.Debugf("Already have block %s", blockHash)
		return ResultIgnored, nil
	}
	stored, err := b.storage.GetBlock(blockHash)
	if err != nil {
		return 0, err
	}
	if stored != nil {
		log.Debugf("Already have block %s in the store", blockHash)
		return ResultIgnored, nil
	}
	if b.IsKnownOrphan(blockHash) {
		log.Debugf("Already have block %s as an orphan", blockHash)
		return ResultIgnored, nil
	}

	// Perform preliminary sanity checks on the block and its transactions.
	if err := checkBlockSanity(block, b.params, b.timeSource()); err != nil {
		return 0, err
	}

	// Handle orphan blocks.
	parentHash := &block.Header().PrevBlock
	parent, err := b.nodeByHash(parentHash)
	if err != nil {
		return 0, err
	}
	if parent == nil {
		log.Infof("Adding orphan block %s with parent %s", blockHash,
			parentHash)
		b.addOrphanBlock(block)
		return ResultOrphan, nil
	}

	result, err := b.maybeAcceptBlock(block)
	if err != nil {
		return 0, err
	}

	// Accept any orphan blocks that depend on this block (they are no
	// longer orphans) and repeat for those accepted blocks until there are
	// no more.
	if err := b.processOrphans(blockHash); err != nil {
		return 0, err
	}

	log.Debugf("Accepted block %s (%s)", blockHash, result)
	return result, nil
}
