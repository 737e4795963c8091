package blockchain

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/embercoin/emberd/chaincfg"
	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
)

// fakeNode appends a synthetic node to parent for difficulty calculations.
// fakeNodeCounter gives every fake node a distinct hash, matching the index
// invariant of one node per block hash.
var fakeNodeCounter uint64

func fakeNode(parent *blockNode, bits uint32, timestamp uint32) *blockNode {
	fakeNodeCounter++
	hash := &chainhash.Hash{}
	binary.LittleEndian.PutUint64(hash[:], fakeNodeCounter)
	node := &blockNode{
		parent:    parent,
		hash:      hash,
		workSum:   util.CalcWork(bits),
		bits:      bits,
		timestamp: timestamp,
	}
	if parent != nil {
		node.height = parent.height + 1
		node.workSum.Add(parent.workSum, node.workSum)
	}
	return node
}

// fakeChain returns a chain whose checkpoint node is a synthetic genesis and
// whose blocks are spaced spacing seconds apart, all at the pow limit.
func fakeChain(params *chaincfg.Params, length int, spacing uint32) *Blockchain {
	genesis := fakeNode(nil, params.PowLimitBits, 0)
	b := &Blockchain{params: params, checkpointNode: genesis}

	node := genesis
	for i := 1; i <= length; i++ {
		node = fakeNode(node, params.PowLimitBits, uint32(i)*spacing)
	}
	b.headNode = node
	return b
}

func TestRequiredDifficulty(t *testing.T) {
	params := &chaincfg.SimNetParams
	blockTime := uint32(params.TargetTimePerBlock.Seconds())

	// halvedBits encodes half the simnet pow limit target.
	halvedBits := util.BigToCompact(new(big.Int).Rsh(params.PowMax, 1))

	tests := []struct {
		name    string
		length  int
		spacing uint32
		want    uint32
	}{
		{
			// The first block after the checkpoint has no history to
			// retarget from.
			name:    "no history",
			length:  0,
			spacing: 0,
			want:    params.PowLimitBits,
		},
		{
			name:    "on schedule",
			length:  10,
			spacing: blockTime,
			want:    params.PowLimitBits,
		},
		{
			// Zero spacing clamps to the maximum adjustment factor, so
			// the target is cut in half.
			name:    "blocks too fast",
			length:  10,
			spacing: 0,
			want:    halvedBits,
		},
		{
			// Slow blocks would raise the target, but it is already at
			// the pow limit.
			name:    "blocks too slow",
			length:  10,
			spacing: 10 * blockTime,
			want:    params.PowLimitBits,
		},
	}

	for _, test := range tests {
		b := fakeChain(params, test.length, test.spacing)
		got := b.requiredDifficulty(b.headNode)
		if got != test.want {
			t.Errorf("%s: got %08x, want %08x", test.name, got, test.want)
		}
	}
}

func TestRequiredDifficultyWindowIsBounded(t *testing.T) {
	params := &chaincfg.SimNetParams
	blockTime := uint32(params.TargetTimePerBlock.Seconds())

	// A chain twice as long as the window behaves exactly like one that
	// just fills it: only the window is consulted.
	short := fakeChain(params, int(params.DifficultyAdjustmentWindowSize), blockTime)
	long := fakeChain(params, int(params.DifficultyAdjustmentWindowSize)*2, blockTime)
	if short.requiredDifficulty(short.headNode) != long.requiredDifficulty(long.headNode) {
		t.Error("window-sized and longer chains disagree on the difficulty")
	}
}

func TestAncestorAndFindFork(t *testing.T) {
	params := &chaincfg.SimNetParams
	genesis := fakeNode(nil, params.PowLimitBits, 0)

	// Two branches off the block at height 2.
	trunk := []*blockNode{genesis}
	node := genesis
	for i := 0; i < 5; i++ {
		node = fakeNode(node, params.PowLimitBits, uint32(i))
		trunk = append(trunk, node)
	}
	branch := fakeNode(trunk[2], params.PowLimitBits, 100)
	branch = fakeNode(branch, params.PowLimitBits, 101)

	if got := trunk[5].Ancestor(2); got != trunk[2] {
		t.Errorf("Ancestor(2): got height %d node, want trunk node", got.height)
	}
	if got := trunk[5].Ancestor(6); got != nil {
		t.Error("Ancestor above the node's height must be nil")
	}

	if got := branch.findFork(trunk[5]); got != trunk[2] {
		t.Errorf("findFork: got height %d, want fork at height 2", got.height)
	}
	if got := trunk[5].findFork(branch); got != trunk[2] {
		t.Errorf("findFork reversed: got height %d, want fork at height 2",
			got.height)
	}
	if got := trunk[3].findFork(trunk[5]); got != trunk[3] {
		t.Error("findFork of a node with its descendant must be the node")
	}
}
