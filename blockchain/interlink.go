// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// nextInterlink constructs the interlink a child of the given parent node
// must carry, for a child whose bits decode to target.
//
// The entry at position zero is always the parent hash. The parent's entry at
// position level-1 is promoted to position level as long as it still
// qualifies as a level superblock relative to the child's target, that is,
// its hash value multiplied by 2^level stays below the target. Entries are
// dropped from the first one that no longer qualifies: a hash that fails at
// some level fails at every higher level too, since targets only shrink with
// the level.
//
// This function MUST be called with the chain lock held (for reads).
func nextInterlink(parent *blockNode, target *big.Int) *wire.BlockInterlink {
	hashes := make([]*chainhash.Hash, 0, len(parent.interlink)+1)
	hashes = append(hashes, parent.hash)

	value := new(big.Int)
	for level := 1; level <= len(parent.interlink); level++ {
		entry := parent.interlink[level-1]
		value.Lsh(util.HashToBig(entry), uint(level))
		if value.Cmp(target) >= 0 {
			break
		}
		hashes = append(hashes, entry)
	}

	if len(hashes) > wire.MaxInterlinkHashes {
		hashes = hashes[:wire.MaxInterlinkHashes]
	}
	return wire.NewBlockInterlink(hashes)
}

// checkBlockInterlink verifies that the interlink carried by the block is
// exactly the one prescribed by its parent and its own target.
//
// This function MUST be called with the chain lock held (for reads).
func checkBlockInterlink(block *util.Block, parent *blockNode, target *big.Int) error {
	want := nextInterlink(parent, target)
	if !chainhash.AreEqual(block.Interlink().Hashes, want.Hashes) {
		str := "block interlink does not match the interlink prescribed " +
			"by its parent"
		return ruleError(ErrBadInterlink, str)
	}
	return nil
}
