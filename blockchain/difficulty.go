// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/embercoin/emberd/util"
)

// requiredDifficulty calculates the required difficulty in compact form for
// the block after the passed parent node.
//
// The difficulty is retargeted on every block: the targets of the most recent
// window of blocks are averaged and scaled by the ratio of the time the
// window actually took to the time it should have taken. The ratio is
// clamped so a single retarget cannot move the difficulty by more than the
// network's maximum adjustment factor.
//
// This function MUST be called with the chain lock held (for reads).
func (b *Blockchain) requiredDifficulty(parent *blockNode) uint32 {
	// The window reaches back at most DifficultyAdjustmentWindowSize
	// blocks, and never past the block the chain was bootstrapped from,
	// since the timestamps beyond it are unknown.
	windowSize := parent.height - b.checkpointNode.height
	if windowSize > b.params.DifficultyAdjustmentWindowSize {
		windowSize = b.params.DifficultyAdjustmentWindowSize
	}
	if windowSize == 0 {
		return b.params.PowLimitBits
	}

	firstNode := parent.Ancestor(parent.height - windowSize)

	// Clamp the actual window duration.
	actualTime := int64(parent.timestamp) - int64(firstNode.timestamp)
	expectedTime := int64(windowSize) *
		int64(b.params.TargetTimePerBlock/time.Second)
	maxFactor := b.params.MaxDifficultyAdjustmentFactor
	if actualTime < expectedTime/maxFactor {
		actualTime = expectedTime / maxFactor
	}
	if actualTime > expectedTime*maxFactor {
		actualTime = expectedTime * maxFactor
	}

	// Average the targets over the window. firstNode delimits the window
	// and is not part of it.
	targetSum := new(big.Int)
	for node := parent; node != firstNode; node = node.parent {
		targetSum.Add(targetSum, node.target())
	}
	newTarget := targetSum.Div(targetSum, big.NewInt(int64(windowSize)))

	// Scale by how far off schedule the window was. A window that took
	// longer than expected yields a larger target, i.e. a lower
	// difficulty.
	newTarget.Mul(newTarget, big.NewInt(actualTime))
	newTarget.Div(newTarget, big.NewInt(expectedTime))

	if newTarget.Cmp(b.params.PowMax) > 0 {
		newTarget.Set(b.params.PowMax)
	}
	if newTarget.Sign() == 0 {
		newTarget.SetInt64(1)
	}

	// The re-encoding loses precision below the compact mantissa, which is
	// part of the contract: the header's bits field is authoritative.
	return util.BigToCompact(newTarget)
}

// NextRequiredDifficulty returns the required difficulty in compact form for
// the block after the current main chain tip.
//
// This function is safe for concurrent access.
func (b *Blockchain) NextRequiredDifficulty() uint32 {
	b.chainLock.RLock()
	bits := b.requiredDifficulty(b.headNode)
	b.chainLock.RUnlock()
	return bits
}
