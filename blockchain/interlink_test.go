package blockchain

import (
	"math/big"
	"testing"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
)

// hashWithValue returns a hash whose big-endian integer value is v.
func hashWithValue(v int64) *chainhash.Hash {
	var hash chainhash.Hash
	big.NewInt(v).FillBytes(hash[:])
	return &hash
}

func TestNextInterlink(t *testing.T) {
	parentHash := hashWithValue(9999)
	target := big.NewInt(1000)

	tests := []struct {
		name            string
		parentInterlink []*chainhash.Hash
		want            []*chainhash.Hash
	}{
		{
			// A child of a block with an empty interlink (the genesis
			// block) references just the parent.
			name:            "empty parent interlink",
			parentInterlink: nil,
			want:            []*chainhash.Hash{parentHash},
		},
		{
			// value 400 << 1 = 800 < 1000: still a level 1 superblock.
			name:            "entry promoted",
			parentInterlink: []*chainhash.Hash{hashWithValue(400)},
			want:            []*chainhash.Hash{parentHash, hashWithValue(400)},
		},
		{
			// value 500 << 1 = 1000 >= 1000: exactly at the boundary is
			// no longer below the level target.
			name:            "entry at boundary dropped",
			parentInterlink: []*chainhash.Hash{hashWithValue(500)},
			want:            []*chainhash.Hash{parentHash},
		},
		{
			// The first failing level truncates everything above it,
			// even entries that would pass their own level check.
			name: "truncated at first failure",
			parentInterlink: []*chainhash.Hash{
				hashWithValue(400), // 400 << 1 = 800, passes
				hashWithValue(600), // 600 << 2 = 2400, fails
				hashWithValue(1),   // would pass level 3, dropped anyway
			},
			want: []*chainhash.Hash{parentHash, hashWithValue(400)},
		},
	}

	for _, test := range tests {
		parent := &blockNode{hash: parentHash, interlink: test.parentInterlink}
		got := nextInterlink(parent, target)
		if !chainhash.AreEqual(got.Hashes, test.want) {
			t.Errorf("%s: got %v, want %v", test.name,
				chainhash.Strings(got.Hashes), chainhash.Strings(test.want))
		}
	}
}

func TestNextInterlinkDeepens(t *testing.T) {
	// A chain of maximally strong blocks grows the interlink by one entry
	// per block until the cap.
	target := util.CompactToBig(0x207fffff)
	node := &blockNode{hash: hashWithValue(1), interlink: nil}
	for i := 0; i < 10; i++ {
		interlink := nextInterlink(node, target)
		if len(interlink.Hashes) != i+1 {
			t.Fatalf("step %d: interlink has %d entries, want %d", i,
				len(interlink.Hashes), i+1)
		}
		node = &blockNode{hash: hashWithValue(1), interlink: interlink.Hashes}
	}
}
