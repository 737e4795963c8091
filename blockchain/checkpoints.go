// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/embercoin/emberd/chaincfg"
	"github.com/embercoin/emberd/util/chainhash"
)

// isOldCheckpoint returns whether the given block hash is one of the
// network's retired checkpoint hashes. Such blocks were accepted under a
// previous release's checkpoint and are exempt from the proof of work check:
// their nonce may predate the current difficulty rules.
func isOldCheckpoint(params *chaincfg.Params, hash *chainhash.Hash) bool {
	for i := range params.OldCheckpointHashes {
		if params.OldCheckpointHashes[i].IsEqual(hash) {
			return true
		}
	}
	return false
}
