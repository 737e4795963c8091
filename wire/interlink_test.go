package wire

import (
	"bytes"
	"testing"

	"github.com/embercoin/emberd/util/chainhash"
)

// TestBlockInterlinkEmpty ensures the empty interlink serializes to a single
// zero count byte and hashes to the digest of that byte.
func TestBlockInterlinkEmpty(t *testing.T) {
	interlink := NewBlockInterlink(nil)

	var buf bytes.Buffer
	if err := interlink.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x00}) {
		t.Fatalf("Serialize: got %x, want 00", buf.Bytes())
	}
	if interlink.SerializeSize() != 1 {
		t.Fatalf("SerializeSize: got %d, want 1", interlink.SerializeSize())
	}

	want := chainhash.HashH([]byte{0x00})
	if !interlink.Hash().IsEqual(&want) {
		t.Errorf("Hash: got %s, want %s", interlink.Hash(), want)
	}
}

// TestBlockInterlinkSerialize tests the round trip of a populated interlink.
func TestBlockInterlinkSerialize(t *testing.T) {
	hashes := []*chainhash.Hash{
		{0x01}, {0x02}, {0x03},
	}
	interlink := NewBlockInterlink(hashes)

	var buf bytes.Buffer
	if err := interlink.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	wantSize := 1 + 3*chainhash.HashSize
	if len(buf.Bytes()) != wantSize {
		t.Fatalf("Serialize: wrong length - got %d, want %d",
			len(buf.Bytes()), wantSize)
	}
	if interlink.SerializeSize() != wantSize {
		t.Fatalf("SerializeSize: got %d, want %d",
			interlink.SerializeSize(), wantSize)
	}

	var decoded BlockInterlink
	if err := decoded.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !chainhash.AreEqual(decoded.Hashes, interlink.Hashes) {
		t.Errorf("round trip mismatch - got %v, want %v",
			chainhash.Strings(decoded.Hashes), chainhash.Strings(interlink.Hashes))
	}
	if !decoded.Hash().IsEqual(interlink.Hash()) {
		t.Errorf("Hash: decoded interlink hashes differently")
	}
}

// TestBlockInterlinkMaxHashes ensures an over-long interlink is rejected as
// malformed.
func TestBlockInterlinkMaxHashes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, MaxInterlinkHashes+1); err != nil {
		t.Fatalf("WriteVarInt: %v", err)
	}
	for i := 0; i < MaxInterlinkHashes+1; i++ {
		buf.Write(make([]byte, chainhash.HashSize))
	}

	var decoded BlockInterlink
	err := decoded.Deserialize(bytes.NewReader(buf.Bytes()))
	if err == nil {
		t.Fatal("Deserialize: expected error for oversized interlink")
	}
	if _, ok := err.(*MessageError); !ok {
		t.Fatalf("Deserialize: expected *MessageError, got %T", err)
	}
}
