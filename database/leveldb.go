// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
)

// Key prefixes of the store's buckets.
var (
	blockKeyPrefix = []byte("b")
	chainKeyPrefix = []byte("c")
	headKey        = []byte("head")
)

// blockCacheSize is the number of recently touched blocks kept deserialized
// in memory. Chain processing revisits recent blocks constantly, during
// reorganizations in particular.
const blockCacheSize = 512

// LevelDBStore is a block store backed by a LevelDB database. It keeps
// blocks keyed by hash, a height index for the main chain, and the head
// hash, fronted by an in-memory cache for recently touched blocks.
type LevelDBStore struct {
	db         *leveldb.DB
	blockCache *lru.Cache
}

// NewLevelDBStore opens (creating it if needed) the LevelDB database at the
// given path and returns a store backed by it.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	opts := opt.Options{
		Filter: filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(path, &opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open block store at %s", path)
	}

	blockCache, err := lru.New(blockCacheSize)
	if err != nil {
		return nil, err
	}

	log.Infof("Block store opened at %s", path)
	return &LevelDBStore{db: db, blockCache: blockCache}, nil
}

// Close flushes and closes the underlying database.
func (s *LevelDBStore) Close() error {
	return errors.WithStack(s.db.Close())
}

// blockKey returns the database key of the block with the given hash.
func blockKey(hash *chainhash.Hash) []byte {
	return append(blockKeyPrefix, hash[:]...)
}

// chainKey returns the database key of the main chain entry at the given
// height.
func chainKey(height uint32) []byte {
	key := make([]byte, len(chainKeyPrefix)+4)
	copy(key, chainKeyPrefix)
	binary.BigEndian.PutUint32(key[len(chainKeyPrefix):], height)
	return key
}

// GetBlock returns the block with the given hash, or nil when the store does
// not contain it.
func (s *LevelDBStore) GetBlock(hash *chainhash.Hash) (*util.Block, error) {
	if cached, ok := s.blockCache.Get(*hash); ok {
		return cached.(*util.Block), nil
	}

	serialized, err := s.db.Get(blockKey(hash), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	block, err := util.NewBlockFromBytes(serialized)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt block %s in the store", hash)
	}
	s.blockCache.Add(*hash, block)
	return block, nil
}

// PutBlock stores a block, keyed by its hash.
func (s *LevelDBStore) PutBlock(block *util.Block) error {
	serialized, err := block.Bytes()
	if err != nil {
		return err
	}
	err = s.db.Put(blockKey(block.Hash()), serialized, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	s.blockCache.Add(*block.Hash(), block)
	return nil
}

// GetHead returns the hash of the current main chain tip, or nil when the
// store is empty.
func (s *LevelDBStore) GetHead() (*chainhash.Hash, error) {
	return s.getHash(headKey)
}

// SetHead records the hash of the current main chain tip.
func (s *LevelDBStore) SetHead(hash *chainhash.Hash) error {
	return errors.WithStack(s.db.Put(headKey, hash[:], nil))
}

// GetMainChainHash returns the hash of the main chain block at the given
// height, or nil when there is no entry.
func (s *LevelDBStore) GetMainChainHash(height uint32) (*chainhash.Hash, error) {
	return s.getHash(chainKey(height))
}

// SetMainChainHash records the given block hash as the main chain block at
// the given height.
func (s *LevelDBStore) SetMainChainHash(height uint32, hash *chainhash.Hash) error {
	return errors.WithStack(s.db.Put(chainKey(height), hash[:], nil))
}

// DeleteMainChainHash removes the main chain entry at the given height.
func (s *LevelDBStore) DeleteMainChainHash(height uint32) error {
	return errors.WithStack(s.db.Delete(chainKey(height), nil))
}

// getHash reads a hash-valued key, mapping a missing key to nil.
func (s *LevelDBStore) getHash(key []byte) (*chainhash.Hash, error) {
	value, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	hash, err := chainhash.NewHash(value)
	if err != nil {
		return nil, err
	}
	return hash, nil
}
