// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// Ledger is the accounts state collaborator of the chain. Ledger states are
// content addressed: every state is identified by its root hash and remains
// reachable after newer states are committed, which is what makes switching
// to a side branch a matter of opening the state at the fork point again.
//
// The chain calls the ledger only while holding the chain lock, so
// implementations need not be safe for concurrent mutation.
type Ledger interface {
	// OpenTransaction returns a mutable view of the state identified by
	// root. An error is returned if no such state is known.
	OpenTransaction(root *chainhash.Hash) (LedgerTransaction, error)
}

// LedgerTransaction is a mutable view of a ledger state. Changes are not
// visible outside the transaction until Commit persists the resulting state
// under its root hash.
type LedgerTransaction interface {
	// CommitBlockBody applies the miner payout and all transactions of the
	// body to the view. The error is a ledger rule failure, for example a
	// bad signature, a nonce mismatch or an overspend; the view is left
	// unchanged when an error is returned.
	CommitBlockBody(body *wire.BlockBody) error

	// Hash returns the root of the view's current state.
	Hash() *chainhash.Hash

	// Commit persists the view's state under its root hash and closes the
	// transaction.
	Commit() error

	// Abort discards the view.
	Abort() error
}

// Storage is the block persistence collaborator of the chain. Lookups return
// a nil value with a nil error when the requested entry does not exist; a
// non-nil error always means the store itself failed.
//
// The chain calls the store only while holding the chain lock.
type Storage interface {
	// GetBlock returns the block with the given hash, on the main chain or
	// off it.
	GetBlock(hash *chainhash.Hash) (*util.Block, error)

	// PutBlock stores a block, keyed by its hash.
	PutBlock(block *util.Block) error

	// GetHead returns the hash of the current main chain tip.
	GetHead() (*chainhash.Hash, error)

	// SetHead records the hash of the current main chain tip.
	SetHead(hash *chainhash.Hash) error

	// GetMainChainHash returns the hash of the main chain block at the
	// given height.
	GetMainChainHash(height uint32) (*chainhash.Hash, error)

	// SetMainChainHash records the given block hash as the main chain
	// block at the given height, replacing any previous entry.
	SetMainChainHash(height uint32, hash *chainhash.Hash) error

	// DeleteMainChainHash removes the main chain entry at the given
	// height. Removing a missing entry is not an error.
	DeleteMainChainHash(height uint32) error
}
