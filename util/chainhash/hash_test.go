// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"bytes"
	"testing"
)

// mainNetGenesisHash is the hash of the first block in the block chain for the
// main network (genesis block).
var mainNetGenesisHash = Hash([HashSize]byte{
	0x00, 0x00, 0x56, 0xef, 0x11, 0x7a, 0xf7, 0xf6,
	0x54, 0xdf, 0x53, 0xb1, 0x61, 0x00, 0xbf, 0xb3,
	0x50, 0xc5, 0x1c, 0x74, 0x34, 0x6b, 0xcb, 0x7f,
	0x3b, 0x79, 0x6b, 0x3b, 0x84, 0xa8, 0x8a, 0xcf,
})

// TestHash tests the Hash API.
func TestHash(t *testing.T) {
	hashStr := "4a60c57cddd63985b7d2b8ac4826edfd36299c04bb59e1e90bd39d8be2ac8efc"
	hashFromStr, err := NewHashFromStr(hashStr)
	if err != nil {
		t.Errorf("NewHashFromStr: %v", err)
	}

	buf := []byte{
		0x4a, 0x60, 0xc5, 0x7c, 0xdd, 0xd6, 0x39, 0x85,
		0xb7, 0xd2, 0xb8, 0xac, 0x48, 0x26, 0xed, 0xfd,
		0x36, 0x29, 0x9c, 0x04, 0xbb, 0x59, 0xe1, 0xe9,
		0x0b, 0xd3, 0x9d, 0x8b, 0xe2, 0xac, 0x8e, 0xfc,
	}

	hash, err := NewHash(buf)
	if err != nil {
		t.Errorf("NewHash: unexpected error %v", err)
	}

	// Ensure proper size.
	if len(hash) != HashSize {
		t.Errorf("NewHash: hash length mismatch - got: %v, want: %v",
			len(hash), HashSize)
	}

	// Ensure contents match.
	if !bytes.Equal(hash[:], buf) {
		t.Errorf("NewHash: hash contents mismatch - got: %v, want: %v",
			hash[:], buf)
	}

	// Ensure the parsed string form matches the raw bytes.
	if !hash.IsEqual(hashFromStr) {
		t.Errorf("IsEqual: hash contents mismatch - got: %v, want: %v",
			hash, hashFromStr)
	}

	// Ensure contents don't match a different hash.
	if hash.IsEqual(&mainNetGenesisHash) {
		t.Errorf("IsEqual: hash contents should not match - got: %v, want: %v",
			hash, mainNetGenesisHash)
	}

	// Set hash from byte slice and ensure contents match.
	err = hash.SetBytes(mainNetGenesisHash.CloneBytes())
	if err != nil {
		t.Errorf("SetBytes: %v", err)
	}
	if !hash.IsEqual(&mainNetGenesisHash) {
		t.Errorf("IsEqual: hash contents mismatch - got: %v, want: %v",
			hash, mainNetGenesisHash)
	}

	// Ensure nil hashes are handled properly.
	if !(*Hash)(nil).IsEqual(nil) {
		t.Error("IsEqual: nil hashes should match")
	}
	if hash.IsEqual(nil) {
		t.Error("IsEqual: non-nil hash matches nil hash")
	}

	// Invalid size for SetBytes.
	err = hash.SetBytes([]byte{0x00})
	if err == nil {
		t.Errorf("SetBytes: failed to received expected err - got: nil")
	}

	// Invalid size for NewHash.
	invalidHash := make([]byte, HashSize+1)
	_, err = NewHash(invalidHash)
	if err == nil {
		t.Errorf("NewHash: failed to received expected err - got: nil")
	}
}

// TestHashString tests the stringized output for hashes.
func TestHashString(t *testing.T) {
	wantStr := "000056ef117af7f654df53b16100bfb350c51c74346bcb7f3b796b3b84a88acf"
	gotStr := mainNetGenesisHash.String()
	if gotStr != wantStr {
		t.Errorf("String: wrong hash string - got %v, want %v",
			gotStr, wantStr)
	}
}

// TestHashCmp tests the big-endian ordering of hashes.
func TestHashCmp(t *testing.T) {
	small := Hash{0x00, 0x01}
	big := Hash{0xff}

	if small.Cmp(&big) != -1 {
		t.Errorf("Cmp: expected %s < %s", small, big)
	}
	if big.Cmp(&small) != 1 {
		t.Errorf("Cmp: expected %s > %s", big, small)
	}
	if small.Cmp(&small) != 0 {
		t.Errorf("Cmp: expected %s == %s", small, small)
	}
	if !small.Less(&big) {
		t.Errorf("Less: expected %s less than %s", small, big)
	}
}

// TestNewHashFromStr executes tests against the NewHashFromStr function.
func TestNewHashFromStr(t *testing.T) {
	tests := []struct {
		in   string
		want Hash
		err  error
	}{
		// Empty string.
		{
			"",
			Hash{},
			nil,
		},

		// Single digit hash.
		{
			"1",
			Hash([HashSize]byte{
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
			}),
			nil,
		},

		// Hash string that is too long.
		{
			"01234567890123456789012345678901234567890123456789012345678912345",
			Hash{},
			ErrHashStrSize,
		},

	}

	for i, test := range tests {
		result, err := NewHashFromStr(test.in)
		if test.err != nil {
			if err != test.err {
				t.Errorf("NewHashFromStr #%d: expected error %v, got %v",
					i, test.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewHashFromStr #%d: unexpected error: %v", i, err)
			continue
		}
		if !test.want.IsEqual(result) {
			t.Errorf("NewHashFromStr #%d: got %v, want %v", i,
				result, test.want)
		}
	}

	// A string containing non-hex characters must be rejected.
	if _, err := NewHashFromStr("abcdefg"); err == nil {
		t.Error("NewHashFromStr: expected error for non-hex input")
	}
}

// TestHashFuncs ensures HashB and HashH agree and are stable.
func TestHashFuncs(t *testing.T) {
	// BLAKE2b-256 of a single zero byte, which is also the digest of an
	// empty serialized interlink.
	want := "03170a2e7597b7b7e3d84c05391d139a62b157e78786d8c082f29dcf4c111314"

	got := HashH([]byte{0x00})
	if got.String() != want {
		t.Errorf("HashH: got %s, want %s", got, want)
	}

	var fromB Hash
	if err := fromB.SetBytes(HashB([]byte{0x00})); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	if fromB != got {
		t.Errorf("HashB/HashH mismatch: %s != %s", fromB, got)
	}

	writer := NewHashWriter()
	if _, err := writer.Write([]byte{0x00}); err != nil {
		t.Fatalf("HashWriter.Write: %v", err)
	}
	if finalized := writer.Finalize(); finalized != got {
		t.Errorf("HashWriter: got %s, want %s", finalized, got)
	}
}
