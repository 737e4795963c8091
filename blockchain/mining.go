// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sort"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/wire"
)

// TemplateBlock assembles an unsolved block on top of the current main chain
// tip: the transactions are put in canonical order, the body is applied to
// the ledger to obtain the accounts hash the header must commit to, and the
// required difficulty and interlink are filled in. The nonce is left at zero
// for the caller to solve.
//
// The ledger application is speculative; nothing is committed until the
// solved block goes through ProcessBlock.
//
// This function is safe for concurrent access.
func (b *Blockchain) TemplateBlock(minerAddr address.Address, txs []*wire.MsgTx) (*wire.MsgBlock, error) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	head := b.headNode

	sortedTxs := make([]*wire.MsgTx, len(txs))
	copy(sortedTxs, txs)
	sort.Slice(sortedTxs, func(i, j int) bool {
		return sortedTxs[i].Less(sortedTxs[j])
	})
	body := wire.NewBlockBody(minerAddr, sortedTxs)

	height := head.height + 1
	ledgerTx, err := b.ledger.OpenTransaction(&head.accountsHash)
	if err != nil {
		return nil, err
	}
	if err := ledgerTx.CommitBlockBody(body); err != nil {
		abortErr := ledgerTx.Abort()
		if abortErr != nil {
			return nil, abortErr
		}
		return nil, ruleError(ErrInvalidBody, err.Error())
	}
	accountsHash := ledgerTx.Hash()
	if err := ledgerTx.Abort(); err != nil {
		return nil, err
	}

	bits := b.requiredDifficulty(head)
	interlink := nextInterlink(head, util.CompactToBig(bits))

	timestamp := uint32(b.timeSource().Unix())
	if timestamp < head.timestamp {
		timestamp = head.timestamp
	}

	header := wire.NewBlockHeader(head.hash, interlink.Hash(), body.Hash(),
		accountsHash, bits, height, timestamp)
	return wire.NewMsgBlock(header, interlink, body), nil
}
