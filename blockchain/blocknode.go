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

// blockNode represents a block within the block index. The index keeps one
// node per known block, on the main chain or off it, linked to its parent.
// Nodes are mostly immutable once created; the only mutable piece of state is
// whether the node is currently on the main chain, and that is owned by the
// chain lock.
type blockNode struct {
	// parent is the parent block for this node. It is nil for the node of
	// the checkpoint block the chain was bootstrapped from.
	parent *blockNode

	// hash is the hash of the block this node represents.
	hash *chainhash.Hash

	// workSum is the total amount of work in the chain up to and including
	// this node.
	workSum *big.Int

	// interlink is the interlink carried by this block. It is retained in
	// the index because constructing a child's interlink needs it.
	interlink []*chainhash.Hash

	// Selected header fields, cached to avoid loading the full block from
	// storage during validation of descendants.
	version      uint16
	bits         uint32
	height       uint32
	timestamp    uint32
	accountsHash chainhash.Hash
}

// newBlockNode returns a new block node for the given block and parent node.
// workSum is calculated based on the parent; the parent may only be nil for a
// checkpoint node, whose work is supplied by the caller through
// newCheckpointNode instead.
func newBlockNode(block *util.Block, parent *blockNode) *blockNode {
	header := block.Header()
	node := &blockNode{
		parent:       parent,
		hash:         block.Hash(),
		workSum:      util.CalcWork(header.Bits),
		interlink:    block.Interlink().Hashes,
		version:      header.Version,
		bits:         header.Bits,
		height:       header.Height,
		timestamp:    header.Timestamp,
		accountsHash: header.AccountsHash,
	}
	if parent != nil {
		node.workSum = node.workSum.Add(parent.workSum, node.workSum)
	}
	return node
}

// newCheckpointNode returns a detached node for the block the chain is
// bootstrapped from. Its work is the checkpoint's stated cumulative work
// rather than the block's own work.
func newCheckpointNode(block *util.Block, work *big.Int) *blockNode {
	node := newBlockNode(block, nil)
	node.workSum = new(big.Int).Set(work)
	return node
}

// Ancestor returns the ancestor block node at the provided height by
// following the chain backwards from this node. The returned block will be
// nil when a height is requested that is after the height of the passed node
// or before the height of the chain's checkpoint node.
func (node *blockNode) Ancestor(height uint32) *blockNode {
	if height > node.height {
		return nil
	}

	n := node
	for n != nil && n.height != height {
		n = n.parent
	}
	return n
}

// findFork walks back from the receiver and the passed node to their last
// common ancestor. It returns nil when the two nodes do not share history
// down to the checkpoint node.
func (node *blockNode) findFork(other *blockNode) *blockNode {
	a, b := node, other
	for a.height > b.height {
		a = a.parent
	}
	for b != nil && b.height > a.height {
		b = b.parent
	}
	for a != nil && b != nil && !a.hash.IsEqual(b.hash) {
		a = a.parent
		b = b.parent
	}
	if a == nil || b == nil {
		return nil
	}
	return a
}

// target returns the proof of work target this node's bits decode to. The
// bits were validated on acceptance, so decoding cannot fail here.
func (node *blockNode) target() *big.Int {
	return util.CompactToBig(node.bits)
}

// wireInterlink returns the node's interlink as a wire structure.
func (node *blockNode) wireInterlink() *wire.BlockInterlink {
	return wire.NewBlockInterlink(node.interlink)
}
