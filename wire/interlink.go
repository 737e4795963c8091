package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/embercoin/emberd/util/chainhash"
)

// MaxInterlinkHashes is the maximum number of entries an interlink may carry.
// An entry's own proof-of-work value is at least 1, so no entry can satisfy
// a level-240 threshold while targets stay below 2^240; anything longer is
// malformed.
const MaxInterlinkHashes = 240

// BlockInterlink is the ordered list of superblock ancestor hashes carried by
// a block, one entry per level from level 0 upward. Entry 0 is always the
// previous block. Together the entries form a skip list over the chain's past
// that lets a verifier sample O(log n) ancestors to prove cumulative work
// without downloading every block.
type BlockInterlink struct {
	// Hashes holds the ancestor hash for each superblock level present at
	// this height. The genesis block's interlink is the empty list.
	Hashes []*chainhash.Hash
}

// Hash computes the interlink identifier hash, the digest of the serialized
// entry list.
func (il *BlockInterlink) Hash() *chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, il.SerializeSize()))
	_ = writeBlockInterlink(buf, il)

	hash := chainhash.HashH(buf.Bytes())
	return &hash
}

// Deserialize decodes an interlink from r into the receiver.
func (il *BlockInterlink) Deserialize(r io.Reader) error {
	return readBlockInterlink(r, il)
}

// Serialize encodes an interlink to w.
func (il *BlockInterlink) Serialize(w io.Writer) error {
	return writeBlockInterlink(w, il)
}

// SerializeSize returns the number of bytes it would take to serialize the
// interlink.
func (il *BlockInterlink) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(il.Hashes))) +
		len(il.Hashes)*chainhash.HashSize
}

// NewBlockInterlink returns a new BlockInterlink carrying the given hashes.
func NewBlockInterlink(hashes []*chainhash.Hash) *BlockInterlink {
	return &BlockInterlink{Hashes: hashes}
}

// readBlockInterlink reads an interlink from r.
func readBlockInterlink(r io.Reader, il *BlockInterlink) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxInterlinkHashes {
		str := fmt.Sprintf("too many hashes in interlink [count %d, max %d]",
			count, MaxInterlinkHashes)
		return messageError("readBlockInterlink", str)
	}

	hashes := make([]chainhash.Hash, count)
	il.Hashes = make([]*chainhash.Hash, count)
	for i := uint64(0); i < count; i++ {
		err := ReadElement(r, &hashes[i])
		if err != nil {
			return err
		}
		il.Hashes[i] = &hashes[i]
	}
	return nil
}

// writeBlockInterlink writes an interlink to w.
func writeBlockInterlink(w io.Writer, il *BlockInterlink) error {
	err := WriteVarInt(w, uint64(len(il.Hashes)))
	if err != nil {
		return err
	}
	for _, hash := range il.Hashes {
		err := WriteElement(w, hash)
		if err != nil {
			return err
		}
	}
	return nil
}
