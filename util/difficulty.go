// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/embercoin/emberd/util/chainhash"
)

var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// oneLsh256 is 1 shifted left 256 bits. It is defined here to avoid
	// the overhead of creating it multiple times.
	oneLsh256 = new(big.Int).Lsh(bigOne, 256)
)

// HashToBig converts a chainhash.Hash into a big.Int by interpreting the
// digest as a big-endian unsigned integer. The result is the value a header
// hash is compared against its target with, and doubles as the "own
// proof-of-work" of an interlink entry.
func HashToBig(hash *chainhash.Hash) *big.Int {
	return new(big.Int).SetBytes(hash[:])
}

// CompactToBig converts a compact representation of a whole number N to an
// unsigned 32-bit number. The representation is similar to IEEE754 floating
// point numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa. They are broken out of the 32-bit number as
// follows:
//
//	* the most significant 8 bits represent the unsigned base 256 exponent
// 	* bit 23 (the 24th bit) represents the sign bit
//	* the least significant 23 bits represent the mantissa
//
//	-------------------------------------------------
//	|   Exponent     |    Sign    |    Mantissa     |
//	-------------------------------------------------
//	| 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//	-------------------------------------------------
//
// The formula to calculate N is:
// 	N = (-1^sign) * mantissa * 256^(exponent-3)
//
// This compact form is only used to encode unsigned 256-bit numbers which
// represent difficulty targets, thus there really is not a need for a sign
// bit, but it is implemented here to stay consistent with legacy encodings.
func CompactToBig(compact uint32) *big.Int {
	// Extract the mantissa, sign bit, and exponent.
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes to represent the full 256-bit number. So,
	// treat the exponent as the number of bytes and shift the mantissa
	// right or left accordingly. This is equivalent to:
	// N = mantissa * 256^(exponent-3)
	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	// Make it negative if the sign bit is set.
	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// CompactToTarget converts the compact representation to a proof-of-work
// target and enforces that the result is a usable threshold: positive,
// canonical, and no larger than the passed proof-of-work limit. Candidate
// headers whose bits field fails any of these checks are malformed rather
// than merely hard, so a decoding error is returned instead of clamping.
func CompactToTarget(compact uint32, powMax *big.Int) (*big.Int, error) {
	target := CompactToBig(compact)
	if target.Sign() <= 0 {
		return nil, errors.Errorf("compact target %08x decodes to "+
			"non-positive value", compact)
	}
	if target.Cmp(powMax) > 0 {
		return nil, errors.Errorf("compact target %08x decodes to a value "+
			"above the proof-of-work limit %064x", compact, powMax)
	}
	if BigToCompact(target) != compact {
		return nil, errors.Errorf("compact target %08x is not canonical",
			compact)
	}
	return target, nil
}

// HashMeetsTarget reports whether the given block hash satisfies a
// proof-of-work target: the hash, interpreted as a big-endian integer, must
// be strictly less than the target. A hash exactly equal to the target does
// not qualify.
func HashMeetsTarget(hash *chainhash.Hash, target *big.Int) bool {
	return HashToBig(hash).Cmp(target) < 0
}

// BigToCompact converts a whole number N to a compact representation using
// an unsigned 32-bit number. The compact representation only provides 23 bits
// of precision, so values larger than (2^23 - 1) only encode the most
// significant digits of the number. See CompactToBig for details.
func BigToCompact(n *big.Int) uint32 {
	// No need to do any work if it's zero.
	if n.Sign() == 0 {
		return 0
	}

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes. So, shift the number right or left
	// accordingly. This is equivalent to:
	// mantissa = mantissa / 256^(exponent-3)
	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		// Use a copy to avoid modifying the caller's original number.
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// When the mantissa already has the sign bit set, the number is too
	// large to fit into the available 23-bits, so divide the number by 256
	// and increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	// Pack the exponent, sign bit, and mantissa into an unsigned 32-bit
	// int and return it.
	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CalcWork calculates a work value from difficulty bits. A chain is selected
// over a competing chain by the larger sum of these per-block values rather
// than by length, so the work value scales inversely with the target.
//
// The work is defined as:
//	work = 2^256 / (target + 1)
func CalcWork(bits uint32) *big.Int {
	// Return a work value of zero if the passed difficulty bits represent
	// a negative number. Note this should not happen in practice with valid
	// blocks, but an invalid block could trigger it.
	difficultyNum := CompactToBig(bits)
	if difficultyNum.Sign() <= 0 {
		return big.NewInt(0)
	}

	// (1 << 256) / (difficultyNum + 1)
	denominator := new(big.Int).Add(difficultyNum, bigOne)
	return new(big.Int).Div(oneLsh256, denominator)
}

// DifficultyToTarget converts a difficulty, a rational >= 1 where difficulty
// 1 corresponds to the proof-of-work limit, to the equivalent target.
func DifficultyToTarget(difficulty *big.Rat, powMax *big.Int) *big.Int {
	target := new(big.Int).Mul(powMax, difficulty.Denom())
	return target.Div(target, difficulty.Num())
}

// DifficultyToCompact converts a difficulty to the compact encoding of the
// equivalent target.
func DifficultyToCompact(difficulty *big.Rat, powMax *big.Int) uint32 {
	return BigToCompact(DifficultyToTarget(difficulty, powMax))
}

// CompactToDifficulty converts a compact target encoding to the difficulty it
// represents relative to the proof-of-work limit.
func CompactToDifficulty(compact uint32, powMax *big.Int) *big.Rat {
	return new(big.Rat).SetFrac(powMax, CompactToBig(compact))
}
