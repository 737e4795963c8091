// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/embercoin/emberd/util"
)

// TestGenesisBlock tests that the genesis blocks of all networks are
// internally consistent and hash to the expected constants.
func TestGenesisBlock(t *testing.T) {
	tests := []struct {
		name   string
		params *Params
	}{
		{"mainnet", &MainNetParams},
		{"simnet", &SimNetParams},
	}

	for _, test := range tests {
		block := test.params.GenesisBlock

		// The header must commit to the interlink and body it carries.
		if !block.Interlink.Hash().IsEqual(&block.Header.InterlinkHash) {
			t.Errorf("%s: header interlink hash does not match interlink",
				test.name)
		}
		if !block.Body.Hash().IsEqual(&block.Header.BodyHash) {
			t.Errorf("%s: header body hash does not match body", test.name)
		}

		// The block hash must match the pinned constant.
		hash := block.BlockHash()
		if !hash.IsEqual(test.params.GenesisHash) {
			t.Errorf("%s: genesis hash mismatch - got %s, want %s",
				test.name, hash, test.params.GenesisHash)
		}

		// The nonce must satisfy the difficulty the header claims, and
		// that difficulty must be the network's pow limit.
		if block.Header.Bits != test.params.PowLimitBits {
			t.Errorf("%s: genesis bits %08x, want %08x", test.name,
				block.Header.Bits, test.params.PowLimitBits)
		}
		target, err := util.CompactToTarget(block.Header.Bits, test.params.PowMax)
		if err != nil {
			t.Errorf("%s: CompactToTarget: %v", test.name, err)
			continue
		}
		if !util.HashMeetsTarget(hash, target) {
			t.Errorf("%s: genesis nonce does not satisfy its target",
				test.name)
		}
	}
}

// TestCheckpointWork tests that the genesis checkpoints claim exactly the
// work of the genesis block.
func TestCheckpointWork(t *testing.T) {
	for _, params := range []*Params{&MainNetParams, &SimNetParams} {
		want := util.CalcWork(params.GenesisBlock.Header.Bits)
		if params.Checkpoint.Work.Cmp(want) != 0 {
			t.Errorf("%s: checkpoint work %v, want %v", params.Name,
				params.Checkpoint.Work, want)
		}
		if !params.Checkpoint.Hash.IsEqual(params.GenesisHash) {
			t.Errorf("%s: checkpoint hash is not the genesis hash",
				params.Name)
		}
	}
}
