// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"

	"github.com/embercoin/emberd/util/chainhash"
)

// Size is the length in bytes of a serialized account address.
const Size = 20

// version is the Base58Check version byte prepended to encoded addresses.
const version = 0x19

// ErrChecksumMismatch describes an error where decoding failed due to a bad
// checksum.
var ErrChecksumMismatch = errors.New("address checksum mismatch")

// Address is the 20-byte identifier of an account, derived from the
// truncated digest of the account owner's public key. It identifies the
// miner payout recipient in block bodies and the sender/recipient of
// transactions.
type Address [Size]byte

// ZeroAddress is the all-zero address. It is the payout recipient of the
// genesis block body.
var ZeroAddress = Address{}

// FromPublicKey derives the address of the account controlled by the given
// serialized public key: the first 20 bytes of the key's BLAKE2b-256 digest.
func FromPublicKey(pubKey []byte) Address {
	var addr Address
	digest := chainhash.HashB(pubKey)
	copy(addr[:], digest[:Size])
	return addr
}

// Encode returns the Base58Check string form of the address.
func (a Address) Encode() string {
	return base58.CheckEncode(a[:], version)
}

// String returns the human-readable form of the address.
func (a Address) String() string {
	return a.Encode()
}

// Decode parses the Base58Check string form of an address.
func Decode(encoded string) (Address, error) {
	var addr Address
	decoded, decodedVersion, err := base58.CheckDecode(encoded)
	if err != nil {
		if err == base58.ErrChecksum {
			return addr, ErrChecksumMismatch
		}
		return addr, errors.Errorf("decoded address is of unknown format: %s", err)
	}
	if decodedVersion != version {
		return addr, errors.Errorf("unknown address version %d", decodedVersion)
	}
	if len(decoded) != Size {
		return addr, errors.Errorf("decoded address is of wrong length %d", len(decoded))
	}
	copy(addr[:], decoded)
	return addr, nil
}

// SetBytes sets the bytes which represent the address. An error is returned
// if the number of bytes passed in is not Size.
func (a *Address) SetBytes(newAddress []byte) error {
	if len(newAddress) != Size {
		return errors.Errorf("invalid address length of %d, want %d",
			len(newAddress), Size)
	}
	copy(a[:], newAddress)
	return nil
}

// Cmp compares a and target lexicographically and returns -1, 0 or +1. The
// ordering is the one transactions within a block body are sorted by.
func (a *Address) Cmp(target *Address) int {
	for i := range a {
		switch {
		case a[i] < target[i]:
			return -1
		case a[i] > target[i]:
			return 1
		}
	}
	return 0
}
