package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/util/chainhash"
)

// PublicKeySize is the length in bytes of a serialized Schnorr public key.
const PublicKeySize = 32

// SignatureSize is the length in bytes of a serialized Schnorr signature.
const SignatureSize = 64

// TxPayload is the number of bytes a transaction serializes to:
// SenderPubKey 32 bytes + Recipient 20 bytes + Value 8 bytes + Fee 8 bytes +
// Nonce 4 bytes + Signature 64 bytes.
const TxPayload = PublicKeySize + address.Size + 8 + 8 + 4 + SignatureSize

// MsgTx is a basic value transfer between two accounts.
type MsgTx struct {
	// SenderPubKey is the public key of the sending account. The sender
	// address is its truncated digest.
	SenderPubKey [PublicKeySize]byte

	// Recipient is the address credited with Value.
	Recipient address.Address

	// Value is the amount transferred, in the chain's base unit.
	Value uint64

	// Fee is the amount paid to the miner of the including block.
	Fee uint64

	// Nonce must equal the sending account's transaction count, which
	// prevents replay.
	Nonce uint32

	// Signature is the sender's Schnorr signature over the transaction's
	// signing digest.
	Signature [SignatureSize]byte
}

// TxHash computes the transaction identifier, the digest of the full
// serialization including the signature.
func (tx *MsgTx) TxHash() *chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, TxPayload))
	_ = writeMsgTx(buf, tx)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// SigHash computes the digest the sender signs: the serialization with the
// signature field zeroed.
func (tx *MsgTx) SigHash() *chainhash.Hash {
	unsigned := *tx
	unsigned.Signature = [SignatureSize]byte{}

	buf := bytes.NewBuffer(make([]byte, 0, TxPayload))
	_ = writeMsgTx(buf, &unsigned)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// SenderAddress derives the address of the sending account from the sender
// public key.
func (tx *MsgTx) SenderAddress() address.Address {
	return address.FromPublicKey(tx.SenderPubKey[:])
}

// Less reports whether tx precedes other in the canonical in-block order:
// by sender address, then nonce, then transaction hash. The order is a
// consensus rule; a block body whose transactions are not sorted by it is
// invalid.
func (tx *MsgTx) Less(other *MsgTx) bool {
	txSender, otherSender := tx.SenderAddress(), other.SenderAddress()
	if c := txSender.Cmp(&otherSender); c != 0 {
		return c < 0
	}
	if tx.Nonce != other.Nonce {
		return tx.Nonce < other.Nonce
	}
	return tx.TxHash().Less(other.TxHash())
}

// Deserialize decodes a transaction from r into the receiver.
func (tx *MsgTx) Deserialize(r io.Reader) error {
	return readMsgTx(r, tx)
}

// Serialize encodes a transaction to w.
func (tx *MsgTx) Serialize(w io.Writer) error {
	return writeMsgTx(w, tx)
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (tx *MsgTx) SerializeSize() int {
	return TxPayload
}

// readMsgTx reads a transaction from r.
func readMsgTx(r io.Reader, tx *MsgTx) error {
	if _, err := io.ReadFull(r, tx.SenderPubKey[:]); err != nil {
		return errors.WithStack(err)
	}
	return readElements(r, &tx.Recipient, &tx.Value, &tx.Fee, &tx.Nonce,
		&tx.Signature)
}

// writeMsgTx writes a transaction to w.
func writeMsgTx(w io.Writer, tx *MsgTx) error {
	if _, err := w.Write(tx.SenderPubKey[:]); err != nil {
		return errors.WithStack(err)
	}
	return writeElements(w, tx.Recipient, tx.Value, tx.Fee, tx.Nonce,
		&tx.Signature)
}
