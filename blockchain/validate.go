// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"time"

	"github.com/embercoin/emberd/chaincfg"
	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// maxTimeOffset is the maximum number of seconds a block timestamp is
// allowed to be ahead of the current time.
const maxTimeOffset = 600

// checkProofOfWork ensures the block header hash satisfies the target
// difficulty encoded in its bits field, and that the bits field itself
// encodes a valid target for the network.
//
// Blocks whose hash matches one of the network's old checkpoint hashes are
// exempt: their ancestry was valid under a previous release's checkpoint and
// their nonce may predate the current difficulty rules.
func checkProofOfWork(block *util.Block, params *chaincfg.Params) error {
	header := block.Header()
	target, err := util.CompactToTarget(header.Bits, params.PowMax)
	if err != nil {
		str := fmt.Sprintf("block difficulty bits %08x are invalid: %s",
			header.Bits, err)
		return ruleError(ErrUnexpectedDifficulty, str)
	}

	if isOldCheckpoint(params, block.Hash()) {
		return nil
	}

	if !util.HashMeetsTarget(block.Hash(), target) {
		str := fmt.Sprintf("block hash of %s is not below the target "+
			"of %064x", block.Hash(), target)
		return ruleError(ErrHighHash, str)
	}
	return nil
}

// checkBlockSanity performs the validation checks which can be made on a
// block in isolation, without knowing anything about its position in the
// chain: well-formedness of the header, proof of work, the header's
// commitments to the interlink and body it is bundled with, and the
// canonical transaction order.
func checkBlockSanity(block *util.Block, params *chaincfg.Params, now time.Time) error {
	header := block.Header()

	if header.Version != wire.BlockVersion {
		str := fmt.Sprintf("block version %d is unknown", header.Version)
		return ruleError(ErrBlockVersion, str)
	}

	// Only the genesis block carries the null previous block hash and height
	// zero. Any other block claiming them can never have a parent, so it is
	// rejected here instead of waiting in the orphan pool forever.
	if !block.Hash().IsEqual(params.GenesisHash) {
		if header.PrevBlock == chainhash.ZeroHash {
			str := fmt.Sprintf("block %s has a null previous block hash",
				block.Hash())
			return ruleError(ErrNullPrevBlock, str)
		}
		if header.Height == 0 {
			str := fmt.Sprintf("block %s claims height zero", block.Hash())
			return ruleError(ErrInvalidHeight, str)
		}
	}

	if size := block.MsgBlock().SerializeSize(); size > int(params.MaxBlockSize) {
		str := fmt.Sprintf("serialized block of %d bytes is larger than "+
			"the max allowed size of %d", size, params.MaxBlockSize)
		return ruleError(ErrBlockTooBig, str)
	}

	// A block timestamp must not be too far in the future. Seconds
	// granularity matches the header field.
	if int64(header.Timestamp) > now.Unix()+maxTimeOffset {
		str := fmt.Sprintf("block timestamp of %d is too far in the future",
			header.Timestamp)
		return ruleError(ErrTimeTooNew, str)
	}

	if err := checkProofOfWork(block, params); err != nil {
		return err
	}

	// The header commits to the interlink and body it is bundled with.
	if !block.Interlink().Hash().IsEqual(&header.InterlinkHash) {
		str := fmt.Sprintf("block interlink hash of %s does not match the "+
			"header commitment %s", block.Interlink().Hash(),
			header.InterlinkHash)
		return ruleError(ErrBadInterlinkHash, str)
	}
	if !block.Body().Hash().IsEqual(&header.BodyHash) {
		str := fmt.Sprintf("block body hash of %s does not match the "+
			"header commitment %s", block.Body().Hash(), header.BodyHash)
		return ruleError(ErrBadBodyHash, str)
	}

	// Transactions must be in the canonical order, strictly: equal
	// neighbors would mean a duplicate transaction, and a tie on the
	// sender address alone would mean one account spending twice in the
	// same block.
	txs := block.Body().Transactions
	for i := 1; i < len(txs); i++ {
		if !txs[i-1].Less(txs[i]) {
			str := fmt.Sprintf("transaction %d is out of order", i)
			return ruleError(ErrTransactionOrder, str)
		}
		prevSender, sender := txs[i-1].SenderAddress(), txs[i].SenderAddress()
		if prevSender == sender {
			str := fmt.Sprintf("sender %s has more than one transaction "+
				"in the block", sender)
			return ruleError(ErrTransactionOrder, str)
		}
	}

	return nil
}

// checkBlockContext performs the validation checks which depend on the
// block's position in the chain, given its parent node: height and timestamp
// continuity, the required difficulty at this position, and the prescribed
// interlink.
//
// This function MUST be called with the chain lock held (for reads).
func (b *Blockchain) checkBlockContext(block *util.Block, parent *blockNode) error {
	header := block.Header()

	if header.Height != parent.height+1 {
		str := fmt.Sprintf("block height %d is not one more than its "+
			"parent height %d", header.Height, parent.height)
		return ruleError(ErrInvalidHeight, str)
	}

	if header.Timestamp < parent.timestamp {
		str := fmt.Sprintf("block timestamp of %d is before its parent's "+
			"timestamp of %d", header.Timestamp, parent.timestamp)
		return ruleError(ErrTimeTooOld, str)
	}

	wantBits := b.requiredDifficulty(parent)
	if header.Bits != wantBits {
		str := fmt.Sprintf("block difficulty of %08x is not the expected "+
			"value of %08x", header.Bits, wantBits)
		return ruleError(ErrUnexpectedDifficulty, str)
	}

	// The bits field was validated by checkBlockSanity, so the decode here
	// is infallible.
	target := util.CompactToBig(header.Bits)
	return checkBlockInterlink(block, parent, target)
}

// CheckBlockSanity performs the context-free validation checks on a block.
//
// This function is safe for concurrent access.
func (b *Blockchain) CheckBlockSanity(block *util.Block) error {
	return checkBlockSanity(block, b.params, b.timeSource())
}
