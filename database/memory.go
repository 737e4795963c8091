// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"sync"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
)

// MemoryStore is a block store that keeps everything in memory. It is used
// in tests and by ephemeral nodes that do not need persistence.
type MemoryStore struct {
	mtx       sync.RWMutex
	blocks    map[chainhash.Hash]*util.Block
	mainChain map[uint32]chainhash.Hash
	head      *chainhash.Hash
}

// NewMemoryStore returns an empty in-memory block store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks:    make(map[chainhash.Hash]*util.Block),
		mainChain: make(map[uint32]chainhash.Hash),
	}
}

// GetBlock returns the block with the given hash, or nil when the store does
// not contain it.
func (s *MemoryStore) GetBlock(hash *chainhash.Hash) (*util.Block, error) {
	s.mtx.RLock()
	block := s.blocks[*hash]
	s.mtx.RUnlock()
	return block, nil
}

// PutBlock stores a block, keyed by its hash.
func (s *MemoryStore) PutBlock(block *util.Block) error {
	s.mtx.Lock()
	s.blocks[*block.Hash()] = block
	s.mtx.Unlock()
	return nil
}

// GetHead returns the hash of the current main chain tip, or nil when the
// store is empty.
func (s *MemoryStore) GetHead() (*chainhash.Hash, error) {
	s.mtx.RLock()
	head := s.head
	s.mtx.RUnlock()
	return head, nil
}

// SetHead records the hash of the current main chain tip.
func (s *MemoryStore) SetHead(hash *chainhash.Hash) error {
	head := *hash
	s.mtx.Lock()
	s.head = &head
	s.mtx.Unlock()
	return nil
}

// GetMainChainHash returns the hash of the main chain block at the given
// height, or nil when there is no entry.
func (s *MemoryStore) GetMainChainHash(height uint32) (*chainhash.Hash, error) {
	s.mtx.RLock()
	hash, ok := s.mainChain[height]
	s.mtx.RUnlock()
	if !ok {
		return nil, nil
	}
	return &hash, nil
}

// SetMainChainHash records the given block hash as the main chain block at
// the given height.
func (s *MemoryStore) SetMainChainHash(height uint32, hash *chainhash.Hash) error {
	s.mtx.Lock()
	s.mainChain[height] = *hash
	s.mtx.Unlock()
	return nil
}

// DeleteMainChainHash removes the main chain entry at the given height.
func (s *MemoryStore) DeleteMainChainHash(height uint32) error {
	s.mtx.Lock()
	delete(s.mainChain, height)
	s.mtx.Unlock()
	return nil
}
