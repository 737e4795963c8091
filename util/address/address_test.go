package address

import (
	"bytes"
	"testing"
)

// TestEncodeDecode ensures the Base58Check text form round trips.
func TestEncodeDecode(t *testing.T) {
	var addr Address
	for i := range addr {
		addr[i] = byte(i)
	}

	encoded := addr.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if decoded != addr {
		t.Fatalf("Decode: got %s, want %s", decoded, addr)
	}
}

// TestDecodeErrors ensures malformed encodings are rejected.
func TestDecodeErrors(t *testing.T) {
	if _, err := Decode("not-an-address"); err == nil {
		t.Error("Decode: expected error for garbage input")
	}

	// Corrupt a valid encoding so the checksum no longer matches.
	encoded := ZeroAddress.Encode()
	corrupted := "2" + encoded[1:]
	if corrupted == encoded {
		corrupted = "3" + encoded[1:]
	}
	if _, err := Decode(corrupted); err == nil {
		t.Error("Decode: expected error for corrupted input")
	}
}

// TestFromPublicKey ensures address derivation is the truncated key digest.
func TestFromPublicKey(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0xab}, 32)
	addr := FromPublicKey(pubKey)

	again := FromPublicKey(pubKey)
	if addr != again {
		t.Fatal("FromPublicKey: derivation is not deterministic")
	}
	if addr == ZeroAddress {
		t.Fatal("FromPublicKey: derived the zero address")
	}
}

// TestCmp ensures the canonical ordering is lexicographic.
func TestCmp(t *testing.T) {
	small := Address{0x00, 0x01}
	big := Address{0xff}

	if small.Cmp(&big) != -1 {
		t.Errorf("Cmp: expected %s < %s", small, big)
	}
	if big.Cmp(&small) != 1 {
		t.Errorf("Cmp: expected %s > %s", big, small)
	}
	if small.Cmp(&small) != 0 {
		t.Errorf("Cmp: expected equality")
	}
}
