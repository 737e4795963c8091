// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"sync"

	"github.com/embercoin/emberd/blockchain"
	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/wire"
)

// hashesPerCheck is the number of nonces tried between checks for a shutdown
// request or a stale template.
const hashesPerCheck = 16384

// miner is a trivial CPU miner: it repeatedly requests a block template on
// the current chain tip, scans the nonce space for a solution, and submits
// solved blocks back to the chain.
type miner struct {
	chain   *blockchain.Blockchain
	payAddr address.Address

	startStopMtx sync.Mutex
	started      bool
	quit         chan struct{}
	wg           sync.WaitGroup
}

func newMiner(chain *blockchain.Blockchain, payAddr address.Address) *miner {
	return &miner{chain: chain, payAddr: payAddr}
}

// Start begins generating blocks. Calling Start on a started miner is a
// no-op.
func (m *miner) Start() {
	m.startStopMtx.Lock()
	defer m.startStopMtx.Unlock()
	if m.started {
		return
	}

	m.quit = make(chan struct{})
	m.wg.Add(1)
	go m.generateBlocks()
	m.started = true
	log.Infof("Miner started, paying to %s", m.payAddr)
}

// Stop shuts the miner down and waits for its worker to exit.
func (m *miner) Stop() {
	m.startStopMtx.Lock()
	defer m.startStopMtx.Unlock()
	if !m.started {
		return
	}

	close(m.quit)
	m.wg.Wait()
	m.started = false
	log.Info("Miner stopped")
}

func (m *miner) generateBlocks() {
	defer m.wg.Done()

	for {
		select {
		case <-m.quit:
			return
		default:
		}

		template, err := m.chain.TemplateBlock(m.payAddr, nil)
		if err != nil {
			log.Errorf("Failed to assemble a block template: %s", err)
			return
		}

		if !m.solveBlock(template) {
			continue
		}

		block := util.NewBlock(template)
		result, err := m.chain.ProcessBlock(block)
		if err != nil {
			log.Errorf("Mined block %s was rejected: %s", block.Hash(), err)
			continue
		}
		log.Infof("Mined block %s at height %d (%s)", block.Hash(),
			block.Height(), result)
	}
}

// solveBlock scans the nonce space of the passed block for a proof of work
// solution. It returns false when the nonce space is exhausted or a shutdown
// was requested, in which case the caller should fetch a fresh template.
func (m *miner) solveBlock(msgBlock *wire.MsgBlock) bool {
	header := &msgBlock.Header
	target := util.CompactToBig(header.Bits)

	for nonce := uint64(0); nonce <= math.MaxUint32; nonce++ {
		if nonce%hashesPerCheck == 0 {
			select {
			case <-m.quit:
				return false
			default:
			}
		}

		header.Nonce = uint32(nonce)
		if util.HashMeetsTarget(header.BlockHash(), target) {
			return true
		}
	}
	return false
}
