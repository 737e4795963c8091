// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"io"

	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// Block defines a block that provides easier and more efficient manipulation
// of raw blocks. It memoizes the block hash and the serialized bytes on their
// first access so subsequent accesses don't have to repeat the relatively
// expensive hashing and encoding operations.
//
// The wrapped wire.MsgBlock must not be mutated after the first access: the
// one legitimate mutation window, the nonce search while mining, happens on
// the raw header before it is wrapped.
type Block struct {
	// Underlying MsgBlock
	msgBlock *wire.MsgBlock

	// Serialized bytes for the block. Used only internally; Bytes() should
	// be used everywhere else.
	serializedBlock []byte

	// Cached block hash. Used only internally; Hash() should be used
	// everywhere else.
	blockHash *chainhash.Hash
}

// MsgBlock returns the underlying wire.MsgBlock for the Block.
func (b *Block) MsgBlock() *wire.MsgBlock {
	// Return the cached block.
	return b.msgBlock
}

// Bytes returns the serialized bytes for the Block. This is equivalent to
// calling Serialize on the underlying wire.MsgBlock, however it caches the
// result so subsequent calls are more efficient.
func (b *Block) Bytes() ([]byte, error) {
	// Return the cached serialized bytes if it has already been generated.
	if len(b.serializedBlock) != 0 {
		return b.serializedBlock, nil
	}

	// Serialize the MsgBlock.
	w := bytes.NewBuffer(make([]byte, 0, b.msgBlock.SerializeSize()))
	err := b.msgBlock.Serialize(w)
	if err != nil {
		return nil, err
	}
	serializedBlock := w.Bytes()

	// Cache the serialized bytes and return them.
	b.serializedBlock = serializedBlock
	return serializedBlock, nil
}

// Hash returns the block identifier hash for the Block. This is equivalent to
// calling BlockHash on the underlying wire.MsgBlock, however it caches the
// result so subsequent calls are more efficient.
func (b *Block) Hash() *chainhash.Hash {
	// Return the cached block hash if it has already been generated.
	if b.blockHash != nil {
		return b.blockHash
	}

	// Cache the block hash and return it.
	hash := b.msgBlock.BlockHash()
	b.blockHash = hash
	return hash
}

// Header returns the header of the underlying block.
func (b *Block) Header() *wire.BlockHeader {
	return &b.msgBlock.Header
}

// Interlink returns the interlink of the underlying block.
func (b *Block) Interlink() *wire.BlockInterlink {
	return &b.msgBlock.Interlink
}

// Body returns the body of the underlying block.
func (b *Block) Body() *wire.BlockBody {
	return &b.msgBlock.Body
}

// Height returns the height stored in the underlying block header.
func (b *Block) Height() uint32 {
	return b.msgBlock.Header.Height
}

// NewBlock returns a new instance of a block given an underlying
// wire.MsgBlock. See Block.
func NewBlock(msgBlock *wire.MsgBlock) *Block {
	return &Block{msgBlock: msgBlock}
}

// NewBlockFromBytes returns a new instance of a block given the serialized
// bytes. See Block.
func NewBlockFromBytes(serializedBlock []byte) (*Block, error) {
	br := bytes.NewReader(serializedBlock)
	b, err := NewBlockFromReader(br)
	if err != nil {
		return nil, err
	}
	b.serializedBlock = serializedBlock
	return b, nil
}

// NewBlockFromReader returns a new instance of a block given a Reader to
// deserialize the block. See Block.
func NewBlockFromReader(r io.Reader) (*Block, error) {
	// Deserialize the bytes into a MsgBlock.
	var msgBlock wire.MsgBlock
	err := msgBlock.Deserialize(r)
	if err != nil {
		return nil, err
	}

	b := Block{msgBlock: &msgBlock}
	return &b, nil
}
