// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"math/big"
	"testing"

	"github.com/embercoin/emberd/util/chainhash"
)

// powMax mirrors the main network proof-of-work limit, the largest target a
// block may carry (difficulty 1).
var powMax = CompactToBig(0x1e7fffff)

// TestBigToCompact ensures BigToCompact converts big integers to the expected
// compact representation.
func TestBigToCompact(t *testing.T) {
	tests := []struct {
		in  int64
		out uint32
	}{
		{0, 0},
		{-1, 25231360},
		{8388607, 0x037fffff},
	}

	for x, test := range tests {
		n := big.NewInt(test.in)
		r := BigToCompact(n)
		if r != test.out {
			t.Errorf("TestBigToCompact test #%d failed: got %d want %d\n",
				x, r, test.out)
			return
		}
	}
}

// TestCompactToBigRoundTrip ensures the conversion to and from compact form
// is exact for every value the chain can legally carry in a bits field.
func TestCompactToBigRoundTrip(t *testing.T) {
	tests := []uint32{
		0x1e7fffff, // main network pow limit
		0x207fffff, // sim network pow limit
		0x1d00ffff,
		0x1c7fff00,
		0x04008000,
		0x1a44b9f2,
	}

	for _, compact := range tests {
		target := CompactToBig(compact)
		back := BigToCompact(target)
		if back != compact {
			t.Errorf("round trip failed for %08x: got %08x", compact, back)
		}
	}
}

// TestCompactToTarget ensures checked decoding rejects unusable targets
// instead of clamping them.
func TestCompactToTarget(t *testing.T) {
	tests := []struct {
		name    string
		compact uint32
		valid   bool
	}{
		{"pow limit", 0x1e7fffff, true},
		{"typical target", 0x1d00ffff, true},
		{"zero", 0x00000000, false},
		{"negative", 0x01810000, false},
		{"above pow limit", 0x20007fff, false},
		{"non-canonical exponent", 0x1e007fff, false},
	}

	for _, test := range tests {
		target, err := CompactToTarget(test.compact, powMax)
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !test.valid {
			if err == nil {
				t.Errorf("%s: expected decoding error, got target %064x",
					test.name, target)
			}
			continue
		}
		if BigToCompact(target) != test.compact {
			t.Errorf("%s: decoded target does not round trip", test.name)
		}
	}
}

// TestCalcWork ensures the work value scales inversely with the target.
func TestCalcWork(t *testing.T) {
	// work = 2^256 / (target+1). The main network genesis target is
	// 0x7fffff * 2^216, so its work is exactly 2^17.
	work := CalcWork(0x1e7fffff)
	if work.Cmp(big.NewInt(131072)) != 0 {
		t.Errorf("CalcWork: got %v, want 131072", work)
	}

	// A halved target must carry at least double the work.
	halved := new(big.Int).Rsh(CompactToBig(0x1e7fffff), 1)
	halvedWork := CalcWork(BigToCompact(halved))
	if halvedWork.Cmp(new(big.Int).Lsh(work, 1)) < 0 {
		t.Errorf("CalcWork: halved target work %v not double %v", halvedWork, work)
	}

	// Negative difficulty yields no work.
	if CalcWork(0x01810000).Sign() != 0 {
		t.Error("CalcWork: negative difficulty should yield zero work")
	}
}

// TestDifficultyConversions ensures difficulty 1 corresponds to the
// proof-of-work limit and that conversions agree with the compact encoding.
func TestDifficultyConversions(t *testing.T) {
	one := new(big.Rat).SetInt64(1)
	if got := DifficultyToCompact(one, powMax); got != 0x1e7fffff {
		t.Errorf("DifficultyToCompact(1): got %08x, want 1e7fffff", got)
	}

	diff := CompactToDifficulty(0x1e7fffff, powMax)
	if diff.Cmp(one) != 0 {
		t.Errorf("CompactToDifficulty(pow limit): got %v, want 1", diff)
	}

	// Difficulty 2 must halve the target.
	two := new(big.Rat).SetInt64(2)
	target := DifficultyToTarget(two, powMax)
	want := new(big.Int).Rsh(powMax, 1)
	if target.Cmp(want) != 0 {
		t.Errorf("DifficultyToTarget(2): got %064x, want %064x", target, want)
	}
}

// TestHashMeetsTarget ensures a block hash only satisfies a target when it
// is strictly below it. A hash exactly on the target must be rejected.
func TestHashMeetsTarget(t *testing.T) {
	target := big.NewInt(0x10000)

	tests := []struct {
		name  string
		value int64
		want  bool
	}{
		{"below the target", 0xffff, true},
		{"exactly the target", 0x10000, false},
		{"above the target", 0x10001, false},
		{"zero hash", 0, true},
	}

	for _, test := range tests {
		var hash chainhash.Hash
		big.NewInt(test.value).FillBytes(hash[:])
		if got := HashMeetsTarget(&hash, target); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

// TestHashToBig ensures digests are interpreted as big-endian integers.
func TestHashToBig(t *testing.T) {
	hash := chainhash.Hash{0x01}
	want := new(big.Int).Lsh(big.NewInt(1), 248)
	if got := HashToBig(&hash); got.Cmp(want) != 0 {
		t.Errorf("HashToBig: got %v, want %v", got, want)
	}
}
