// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/embercoin/emberd/util/chainhash"
)

// MsgBlock represents a block: a header,
// the interlink it commits to, and the body it commits to, concatenated with
// no padding. The block's hash is its header's hash; the interlink and body
// hashes are inputs to the header, not independently authoritative.
type MsgBlock struct {
	Header    BlockHeader
	Interlink BlockInterlink
	Body      BlockBody
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() *chainhash.Hash {
	return msg.Header.BlockHash()
}

// Deserialize decodes a block from r into the receiver.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	err := readBlockHeader(r, &msg.Header)
	if err != nil {
		return err
	}

	err = readBlockInterlink(r, &msg.Interlink)
	if err != nil {
		return err
	}

	return readBlockBody(r, &msg.Body)
}

// Serialize encodes a block to w.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	err := writeBlockHeader(w, &msg.Header)
	if err != nil {
		return err
	}

	err = writeBlockInterlink(w, &msg.Interlink)
	if err != nil {
		return err
	}

	return writeBlockBody(w, &msg.Body)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block: the exact sum of its part sizes.
func (msg *MsgBlock) SerializeSize() int {
	return msg.Header.SerializeSize() + msg.Interlink.SerializeSize() +
		msg.Body.SerializeSize()
}

// NewMsgBlock returns a new block composed of the given parts.
func NewMsgBlock(header *BlockHeader, interlink *BlockInterlink, body *BlockBody) *MsgBlock {
	return &MsgBlock{
		Header:    *header,
		Interlink: *interlink,
		Body:      *body,
	}
}
