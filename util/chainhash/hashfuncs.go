// Copyright (c) 2015 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// HashB calculates the BLAKE2b-256 digest of b and returns the resulting bytes.
func HashB(b []byte) []byte {
	sum := blake2b.Sum256(b)
	return sum[:]
}

// HashH calculates the BLAKE2b-256 digest of b and returns the resulting Hash.
func HashH(b []byte) Hash {
	return Hash(blake2b.Sum256(b))
}

// HashWriter is used to incrementally hash data without concatenating all of
// the data to a single buffer. It exposes an io.Writer api and a Finalize
// function to get the resulting hash.
// HashWriter.Write(slice).Finalize == HashH(slice)
type HashWriter struct {
	inner hash.Hash
}

// NewHashWriter returns a new HashWriter.
func NewHashWriter() *HashWriter {
	inner, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("unkeyed blake2b.New256 can never fail: '%+v'", err))
	}
	return &HashWriter{inner}
}

// Write will always return (len(p), nil).
func (h *HashWriter) Write(p []byte) (n int, err error) {
	return h.inner.Write(p)
}

// Finalize returns the resulting hash.
func (h *HashWriter) Finalize() Hash {
	res := Hash{}
	// Can never happen, blake2b's Sum is 32 bytes and so is chainhash.Hash.
	err := res.SetBytes(h.inner.Sum(nil))
	if err != nil {
		panic(fmt.Sprintf("should never fail, blake2b.Sum is 32 bytes and so is chainhash.Hash: '%+v'", err))
	}
	return res
}
