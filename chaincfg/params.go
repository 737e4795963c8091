// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// Checkpoint identifies a known good block in the block chain. A chain may be
// bootstrapped from a checkpoint instead of from genesis: the checkpoint
// block's ancestry is then trusted rather than verified, and its stated work
// seeds the cumulative work of everything built on top of it.
type Checkpoint struct {
	Height uint32
	Hash   *chainhash.Hash

	// Work is the total proof of work of the chain up to and including the
	// checkpoint block. For a genesis checkpoint this is just the work of
	// the genesis block itself.
	Work *big.Int
}

// Params defines an ember network by its parameters. These parameters may be
// used by applications to differentiate networks as well as addresses and
// keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowMax defines the highest allowed proof of work target value as a
	// 256-bit integer. Headers whose bits field decodes above this value
	// are invalid.
	PowMax *big.Int

	// PowLimitBits is PowMax in compact form. It is the bits value of the
	// genesis header and the easiest difficulty the retarget may return.
	PowLimitBits uint32

	// TargetTimePerBlock is the desired amount of time between blocks.
	TargetTimePerBlock time.Duration

	// DifficultyAdjustmentWindowSize is the number of most recent blocks
	// whose timestamps are averaged when computing the required difficulty
	// of the next block. Fewer blocks are used while the chain is shorter
	// than the window.
	DifficultyAdjustmentWindowSize uint32

	// MaxDifficultyAdjustmentFactor caps how far a single retarget may move
	// the difficulty in either direction.
	MaxDifficultyAdjustmentFactor int64

	// MaxBlockSize is the maximum size in bytes of a serialized block.
	MaxBlockSize uint32

	// BaseSubsidy is the miner payout per block, before transaction fees,
	// in the smallest currency unit.
	BaseSubsidy uint64

	// Checkpoint is the block the chain starts from. It is the genesis
	// block unless the node is configured to bootstrap from a later known
	// good block.
	Checkpoint Checkpoint

	// OldCheckpointHashes are the hashes of blocks that were the network
	// checkpoint in past releases. A block matching one of these hashes is
	// accepted without proof of work verification so that nodes started
	// from newer checkpoints can still serve proofs that reference older
	// ones.
	OldCheckpointHashes []chainhash.Hash
}

const (
	// baseUnitsPerCoin is the number of smallest currency units in one
	// whole coin.
	baseUnitsPerCoin = 100000

	defaultBaseSubsidy = 50 * baseUnitsPerCoin
)

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name: "mainnet",

	GenesisBlock: &genesisBlock,
	GenesisHash:  &genesisHash,

	PowMax:                         util.CompactToBig(0x1e7fffff),
	PowLimitBits:                   0x1e7fffff,
	TargetTimePerBlock:             time.Minute,
	DifficultyAdjustmentWindowSize: 120,
	MaxDifficultyAdjustmentFactor:  2,
	MaxBlockSize:                   1000000,
	BaseSubsidy:                    defaultBaseSubsidy,

	Checkpoint: Checkpoint{
		Height: 0,
		Hash:   &genesisHash,
		Work:   util.CalcWork(0x1e7fffff),
	},
}

// SimNetParams defines the network parameters for the simulation test
// network. The pow limit is high enough that blocks can be mined with a
// trivial nonce search, which is what functional tests rely on.
var SimNetParams = Params{
	Name: "simnet",

	GenesisBlock: &simnetGenesisBlock,
	GenesisHash:  &simnetGenesisHash,

	PowMax:                         util.CompactToBig(0x207fffff),
	PowLimitBits:                   0x207fffff,
	TargetTimePerBlock:             time.Minute,
	DifficultyAdjustmentWindowSize: 120,
	MaxDifficultyAdjustmentFactor:  2,
	MaxBlockSize:                   1000000,
	BaseSubsidy:                    defaultBaseSubsidy,

	Checkpoint: Checkpoint{
		Height: 0,
		Hash:   &simnetGenesisHash,
		Work:   util.CalcWork(0x207fffff),
	},
}
