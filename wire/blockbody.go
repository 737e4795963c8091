package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/util/chainhash"
)

// maxTxPerBody is the maximum number of transactions a body may carry. It is
// derived from the smallest possible transaction and the largest block any
// network allows, and exists only to bound allocations while decoding.
const maxTxPerBody = 1 << 17

// BlockBody carries a block's payload: the miner payout address and the
// ordered transaction list. Its hash is committed to by the header's BodyHash
// but depends on no header field, so bodies can be pruned without breaking
// header-chain proofs.
type BlockBody struct {
	// MinerAddr is the account credited with the block reward and fees.
	MinerAddr address.Address

	// Transactions in canonical order. The order is part of the body hash
	// and therefore a consensus rule.
	Transactions []*MsgTx
}

// Hash computes the body identifier hash, the digest of the serialized body.
func (body *BlockBody) Hash() *chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, body.SerializeSize()))
	_ = writeBlockBody(buf, body)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// Deserialize decodes a block body from r into the receiver.
func (body *BlockBody) Deserialize(r io.Reader) error {
	return readBlockBody(r, body)
}

// Serialize encodes a block body to w.
func (body *BlockBody) Serialize(w io.Writer) error {
	return writeBlockBody(w, body)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block body.
func (body *BlockBody) SerializeSize() int {
	n := address.Size + VarIntSerializeSize(uint64(len(body.Transactions)))
	for _, tx := range body.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

// AddTransaction adds a transaction to the body.
func (body *BlockBody) AddTransaction(tx *MsgTx) {
	body.Transactions = append(body.Transactions, tx)
}

// NewBlockBody returns a new BlockBody paying the given miner address and
// carrying the given transactions.
func NewBlockBody(minerAddr address.Address, transactions []*MsgTx) *BlockBody {
	return &BlockBody{
		MinerAddr:    minerAddr,
		Transactions: transactions,
	}
}

// readBlockBody reads a block body from r.
func readBlockBody(r io.Reader, body *BlockBody) error {
	err := ReadElement(r, &body.MinerAddr)
	if err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxPerBody {
		str := fmt.Sprintf("too many transactions in body [count %d, max %d]",
			count, maxTxPerBody)
		return messageError("readBlockBody", str)
	}

	body.Transactions = make([]*MsgTx, 0, count)
	for i := uint64(0); i < count; i++ {
		tx := MsgTx{}
		err := readMsgTx(r, &tx)
		if err != nil {
			return err
		}
		body.Transactions = append(body.Transactions, &tx)
	}
	return nil
}

// writeBlockBody writes a block body to w.
func writeBlockBody(w io.Writer, body *BlockBody) error {
	err := WriteElement(w, body.MinerAddr)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(len(body.Transactions)))
	if err != nil {
		return err
	}
	for _, tx := range body.Transactions {
		err := writeMsgTx(w, tx)
		if err != nil {
			return err
		}
	}
	return nil
}
