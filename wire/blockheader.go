// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/embercoin/emberd/util/chainhash"
)

// BlockVersion is the only currently valid value of the block header version
// field.
const BlockVersion uint16 = 1

// BlockHeaderPayload is the number of bytes a block header serializes to:
// PrevBlock, InterlinkHash, BodyHash and AccountsHash (32 bytes each) +
// Bits 4 bytes + Height 4 bytes + Timestamp 4 bytes + Nonce 4 bytes +
// Version 2 bytes.
const BlockHeaderPayload = 4*chainhash.HashSize + 4 + 4 + 4 + 4 + 2

// BlockHeader defines information about a block. Its hash is the block's
// identity; it links the block to its predecessor and commits to the
// interlink, the body and the post-state of the account ledger.
type BlockHeader struct {
	// PrevBlock is the hash of the previous block header. It is all zero
	// only for the genesis block.
	PrevBlock chainhash.Hash

	// InterlinkHash commits to the block's interlink, the skip-list of
	// superblock ancestors.
	InterlinkHash chainhash.Hash

	// BodyHash commits to the block body (miner address + transactions).
	BodyHash chainhash.Hash

	// AccountsHash is the root of the account ledger after this block has
	// been applied.
	AccountsHash chainhash.Hash

	// Bits is the difficulty target for the block in compact form.
	Bits uint32

	// Height is the distance of the block from genesis. Genesis is
	// height 0.
	Height uint32

	// Timestamp is the time the block was created, in seconds since the
	// Unix epoch. Encoded as a uint32 on the wire and therefore limited
	// to 2106.
	Timestamp uint32

	// Nonce is the field the mining search iterates over to satisfy the
	// proof of work. It is the only header field that may be mutated
	// after construction, and only until the header hash has been
	// published.
	Nonce uint32

	// Version of the block. Must equal BlockVersion.
	Version uint16
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() *chainhash.Hash {
	// Encode the header and hash everything. Ignore the error returns
	// since there is no way the encode could fail except being out of
	// memory which would cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderPayload))
	_ = writeBlockHeader(buf, h)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// Deserialize decodes a block header from r into the receiver. The same
// format is used on the wire and for long-term storage.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, h)
}

// Serialize encodes a block header to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func (h *BlockHeader) SerializeSize() int {
	return BlockHeaderPayload
}

// NewBlockHeader returns a new BlockHeader using the provided previous block
// hash, part hashes, difficulty bits, height and timestamp. The nonce starts
// at zero, ready for the mining search, and the version is the current one.
func NewBlockHeader(prevBlock, interlinkHash, bodyHash, accountsHash *chainhash.Hash,
	bits uint32, height uint32, timestamp uint32) *BlockHeader {

	return &BlockHeader{
		PrevBlock:     *prevBlock,
		InterlinkHash: *interlinkHash,
		BodyHash:      *bodyHash,
		AccountsHash:  *accountsHash,
		Bits:          bits,
		Height:        height,
		Timestamp:     timestamp,
		Nonce:         0,
		Version:       BlockVersion,
	}
}

// readBlockHeader reads a block header from r.
func readBlockHeader(r io.Reader, bh *BlockHeader) error {
	return readElements(r, &bh.PrevBlock, &bh.InterlinkHash, &bh.BodyHash,
		&bh.AccountsHash, &bh.Bits, &bh.Height, &bh.Timestamp, &bh.Nonce,
		&bh.Version)
}

// writeBlockHeader writes a block header to w.
func writeBlockHeader(w io.Writer, bh *BlockHeader) error {
	return writeElements(w, &bh.PrevBlock, &bh.InterlinkHash, &bh.BodyHash,
		&bh.AccountsHash, bh.Bits, bh.Height, bh.Timestamp, bh.Nonce,
		bh.Version)
}
