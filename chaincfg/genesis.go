// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// emptyHash is the digest of a single zero byte. It is both the hash of the
// empty interlink (a zero varint count) and the root of the empty accounts
// ledger (a zero varint entry count), so the genesis headers commit to it
// twice.
var emptyHash = chainhash.Hash{
	0x03, 0x17, 0x0a, 0x2e, 0x75, 0x97, 0xb7, 0xb7,
	0xe3, 0xd8, 0x4c, 0x05, 0x39, 0x1d, 0x13, 0x9a,
	0x62, 0xb1, 0x57, 0xe7, 0x87, 0x86, 0xd8, 0xc0,
	0x82, 0xf2, 0x9d, 0xcf, 0x4c, 0x11, 0x13, 0x14,
}

// genesisBody is the body shared by the genesis blocks of all networks: the
// zero miner address and no transactions. The genesis payout is unspendable.
var genesisBody = wire.BlockBody{
	MinerAddr: address.ZeroAddress,
}

// genesisBodyHash is the digest of the serialized genesis body.
var genesisBodyHash = chainhash.Hash{
	0x82, 0xfe, 0x29, 0xd5, 0xc3, 0x59, 0x5a, 0xac,
	0x4e, 0xfd, 0x6a, 0x75, 0xf1, 0xec, 0xf4, 0x96,
	0x0e, 0xcb, 0x2f, 0xf8, 0xab, 0x7f, 0x5a, 0x20,
	0x1b, 0x9a, 0x45, 0xbc, 0x3a, 0xba, 0x6a, 0xb9,
}

// genesisHash is the hash of the first block in the block chain for the main
// network (genesis block).
var genesisHash = chainhash.Hash{
	0x00, 0x00, 0x56, 0xef, 0x11, 0x7a, 0xf7, 0xf6,
	0x54, 0xdf, 0x53, 0xb1, 0x61, 0x00, 0xbf, 0xb3,
	0x50, 0xc5, 0x1c, 0x74, 0x34, 0x6b, 0xcb, 0x7f,
	0x3b, 0x79, 0x6b, 0x3b, 0x84, 0xa8, 0x8a, 0xcf,
}

// genesisBlock defines the genesis block of the block chain which serves as
// the public transaction ledger for the main network. Its nonce satisfies the
// starting difficulty encoded in its bits field.
var genesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:       wire.BlockVersion,
		PrevBlock:     chainhash.ZeroHash,
		InterlinkHash: emptyHash,
		BodyHash:      genesisBodyHash,
		AccountsHash:  emptyHash,
		Bits:          0x1e7fffff,
		Height:        0,
		Timestamp:     0x666a3680, // 2024-06-13 00:00:00 +0000 UTC
		Nonce:         155771,
	},
	Interlink: wire.BlockInterlink{},
	Body:      genesisBody,
}

// simnetGenesisHash is the hash of the first block in the block chain for the
// simulation test network.
var simnetGenesisHash = chainhash.Hash{
	0x4a, 0x60, 0xc5, 0x7c, 0xdd, 0xd6, 0x39, 0x85,
	0xb7, 0xd2, 0xb8, 0xac, 0x48, 0x26, 0xed, 0xfd,
	0x36, 0x29, 0x9c, 0x04, 0xbb, 0x59, 0xe1, 0xe9,
	0x0b, 0xd3, 0x9d, 0x8b, 0xe2, 0xac, 0x8e, 0xfc,
}

// simnetGenesisBlock defines the genesis block of the block chain which
// serves as the public transaction ledger for the simulation test network.
// The simnet pow limit admits roughly half of all hashes, so nonce zero
// already satisfies it.
var simnetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:       wire.BlockVersion,
		PrevBlock:     chainhash.ZeroHash,
		InterlinkHash: emptyHash,
		BodyHash:      genesisBodyHash,
		AccountsHash:  emptyHash,
		Bits:          0x207fffff,
		Height:        0,
		Timestamp:     0x666a3680, // 2024-06-13 00:00:00 +0000 UTC
		Nonce:         0,
	},
	Interlink: wire.BlockInterlink{},
	Body:      genesisBody,
}
