// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/embercoin/emberd/chaincfg"
	"github.com/embercoin/emberd/infrastructure/logger"
	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/chainhash"
)

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// Params identifies the network the chain is associated with.
	//
	// This field is required.
	Params *chaincfg.Params

	// Storage defines the block store to use for persisting blocks and
	// the main chain index.
	//
	// This field is required.
	Storage Storage

	// Ledger defines the accounts state store the chain validates block
	// bodies against.
	//
	// This field is required.
	Ledger Ledger

	// CheckpointBlock is the block the chain is bootstrapped from when the
	// store is empty. When nil, the network's genesis block is used. A
	// non-genesis checkpoint block must match the hash and height of
	// Params.Checkpoint, and the ledger must already contain the state its
	// accounts hash refers to.
	CheckpointBlock *util.Block

	// TimeSource defines the clock used for timestamp validation and
	// orphan expiration. When nil, time.Now is used. Tests substitute a
	// fixed clock here.
	TimeSource func() time.Time
}

// Blockchain provides functions for working with the ember block chain: the
// entry point is ProcessBlock, which accepts candidate blocks, validates
// them, and maintains the single chain with the most cumulative proof of
// work, rebranching to side branches that overtake it.
type Blockchain struct {
	params     *chaincfg.Params
	storage    Storage
	ledger     Ledger
	timeSource func() time.Time

	// chainLock protects the chain state below and serializes all block
	// processing.
	chainLock sync.RWMutex

	index          *blockIndex
	headNode       *blockNode
	checkpointNode *blockNode

	// Orphan pool state. The maps are protected by their own lock so
	// IsKnownOrphan does not have to contend with block processing.
	orphanLock   sync.RWMutex
	orphans      map[chainhash.Hash]*orphanBlock
	prevOrphans  map[chainhash.Hash][]*orphanBlock
	oldestOrphan *orphanBlock
}

// New returns a Blockchain instance using the provided configuration
// details. An empty block store is initialized with the configured
// checkpoint block.
func New(config *Config) (*Blockchain, error) {
	if config.Params == nil {
		return nil, errors.New("blockchain.New: no network params specified")
	}
	if config.Storage == nil {
		return nil, errors.New("blockchain.New: no storage specified")
	}
	if config.Ledger == nil {
		return nil, errors.New("blockchain.New: no ledger specified")
	}

	timeSource := config.TimeSource
	if timeSource == nil {
		timeSource = time.Now
	}

	b := &Blockchain{
		params:      config.Params,
		storage:     config.Storage,
		ledger:      config.Ledger,
		timeSource:  timeSource,
		index:       newBlockIndex(),
		orphans:     make(map[chainhash.Hash]*orphanBlock),
		prevOrphans: make(map[chainhash.Hash][]*orphanBlock),
	}

	if err := b.initChainState(config.CheckpointBlock); err != nil {
		return nil, err
	}

	log.Infof("Chain state (height %d, hash %s)", b.headNode.height,
		b.headNode.hash)
	return b, nil
}

// initChainState loads the chain state from storage, seeding an empty store
// with the checkpoint block first.
func (b *Blockchain) initChainState(checkpointBlock *util.Block) error {
	checkpoint := &b.params.Checkpoint
	if checkpointBlock == nil {
		checkpointBlock = util.NewBlock(b.params.GenesisBlock)
	}
	if !checkpointBlock.Hash().IsEqual(checkpoint.Hash) {
		return errors.Errorf("checkpoint block hash %s does not match the "+
			"network checkpoint %s", checkpointBlock.Hash(), checkpoint.Hash)
	}
	if checkpointBlock.Height() != checkpoint.Height {
		return errors.Errorf("checkpoint block height %d does not match "+
			"the network checkpoint height %d", checkpointBlock.Height(),
			checkpoint.Height)
	}

	// The ledger must know the state the checkpoint block commits to,
	// otherwise nothing that builds on it can be validated.
	ledgerTx, err := b.ledger.OpenTransaction(&checkpointBlock.Header().AccountsHash)
	if err != nil {
		return errors.Wrapf(err, "ledger does not contain the checkpoint "+
			"state %s", &checkpointBlock.Header().AccountsHash)
	}
	if err := ledgerTx.Abort(); err != nil {
		return err
	}

	headHash, err := b.storage.GetHead()
	if err != nil {
		return err
	}
	if headHash == nil {
		// Empty store: seed it with the checkpoint block.
		log.Infof("Initializing block store with checkpoint %s at height %d",
			checkpoint.Hash, checkpoint.Height)
		if err := b.storage.PutBlock(checkpointBlock); err != nil {
			return err
		}
		if err := b.storage.SetMainChainHash(checkpoint.Height,
			checkpointBlock.Hash()); err != nil {
			return err
		}
		if err := b.storage.SetHead(checkpointBlock.Hash()); err != nil {
			return err
		}
		headHash = checkpointBlock.Hash()
	}

	// Rebuild the index for the main chain, from the head back to the
	// checkpoint. Stored side branch blocks are re-indexed lazily when a
	// descendant of theirs shows up.
	mainChain := []*util.Block{}
	hash := headHash
	for !hash.IsEqual(checkpoint.Hash) {
		block, err := b.storage.GetBlock(hash)
		if err != nil {
			return err
		}
		if block == nil {
			return errors.Errorf("main chain block %s is missing from the "+
				"block store", hash)
		}
		mainChain = append(mainChain, block)
		hash = &block.Header().PrevBlock
	}

	b.checkpointNode = newCheckpointNode(checkpointBlock, checkpoint.Work)
	b.index.AddNode(b.checkpointNode)

	node := b.checkpointNode
	for i := len(mainChain) - 1; i >= 0; i-- {
		node = newBlockNode(mainChain[i], node)
		b.index.AddNode(node)
	}
	b.headNode = node
	return nil
}

// nodeByHash returns the block node for the given hash, re-indexing stored
// blocks as needed. It returns nil when the hash is unknown or its ancestry
// does not connect to the indexed chain.
//
// This function MUST be called with the chain lock held (for writes, since
// it may add index entries).
func (b *Blockchain) nodeByHash(hash *chainhash.Hash) (*blockNode, error) {
	if node := b.index.LookupNode(hash); node != nil {
		return node, nil
	}

	// Walk stored blocks backwards until an indexed ancestor is found,
	// then index forward from it.
	var pending []*util.Block
	walkHash := hash
	var ancestor *blockNode
	for {
		block, err := b.storage.GetBlock(walkHash)
		if err != nil {
			return nil, err
		}
		if block == nil {
			return nil, nil
		}
		pending = append(pending, block)
		walkHash = &block.Header().PrevBlock
		if ancestor = b.index.LookupNode(walkHash); ancestor != nil {
			break
		}
	}

	node := ancestor
	for i := len(pending) - 1; i >= 0; i-- {
		node = newBlockNode(pending[i], node)
		b.index.AddNode(node)
	}
	return node, nil
}

// applyBodies opens a ledger transaction at fromRoot, applies the bodies of
// the passed blocks in order, and verifies each block's accounts hash
// commitment along the way. On success the final state is committed. On any
// failure the transaction is aborted and the ledger is left untouched.
//
// This function MUST be called with the chain lock held.
func (b *Blockchain) applyBodies(fromRoot *chainhash.Hash, blocks []*util.Block) error {
	ledgerTx, err := b.ledger.OpenTransaction(fromRoot)
	if err != nil {
		return err
	}

	for _, block := range blocks {
		if err := ledgerTx.CommitBlockBody(block.Body()); err != nil {
			abortErr := ledgerTx.Abort()
			if abortErr != nil {
				return abortErr
			}
			str := fmt.Sprintf("body of block %s cannot be applied to the "+
				"ledger: %s", block.Hash(), err)
			return ruleError(ErrInvalidBody, str)
		}
		root := ledgerTx.Hash()
		if !root.IsEqual(&block.Header().AccountsHash) {
			abortErr := ledgerTx.Abort()
			if abortErr != nil {
				return abortErr
			}
			str := fmt.Sprintf("block %s commits to accounts hash %s but "+
				"applying its body yields %s", block.Hash(),
				block.Header().AccountsHash, root)
			return ruleError(ErrBadAccountsHash, str)
		}
	}

	return ledgerTx.Commit()
}

// connectBlock extends the main chain with the passed node, whose parent is
// the current head. The block's body has already been applied to the ledger.
//
// This function MUST be called with the chain lock held.
func (b *Blockchain) connectBlock(node *blockNode) error {
	if err := b.storage.SetMainChainHash(node.height, node.hash); err != nil {
		return err
	}
	if err := b.storage.SetHead(node.hash); err != nil {
		return err
	}
	b.headNode = node
	return nil
}

// reorganizeChain switches the main chain over to the branch ending in
// newTip. The ledger is rewound to the fork point state and the new branch's
// bodies are applied and verified before any chain state changes; a branch
// that fails validation leaves both the ledger and the chain untouched.
//
// This function MUST be called with the chain lock held.
func (b *Blockchain) reorganizeChain(newTip *blockNode, tipBlock *util.Block) error {
	defer logger.LogAndMeasureExecutionTime(log, "reorganizeChain")()

	forkNode := newTip.findFork(b.headNode)
	if forkNode == nil {
		return errors.Errorf("no common ancestor between candidate tip %s "+
			"and current head %s", newTip.hash, b.headNode.hash)
	}

	// Collect the blocks of the new branch, oldest first. All of them but
	// the tip were stored when they were first seen.
	attachNodes := make([]*blockNode, 0, newTip.height-forkNode.height)
	for node := newTip; node != forkNode; node = node.parent {
		attachNodes = append(attachNodes, node)
	}
	attachBlocks := make([]*util.Block, len(attachNodes))
	for i, node := range attachNodes {
		j := len(attachNodes) - 1 - i
		if node == newTip {
			attachBlocks[j] = tipBlock
			continue
		}
		block, err := b.storage.GetBlock(node.hash)
		if err != nil {
			return err
		}
		if block == nil {
			return errors.Errorf("side branch block %s is missing from "+
				"the block store", node.hash)
		}
		attachBlocks[j] = block
	}

	// Rewinding to the fork point is opening the ledger state the fork
	// block commits to; the states of the blocks being detached stay
	// stored and unreferenced.
	if err := b.applyBodies(&forkNode.accountsHash, attachBlocks); err != nil {
		return err
	}

	// The new branch is fully valid; update the main chain index.
	oldHead := b.headNode
	for height := newTip.height + 1; height <= oldHead.height; height++ {
		if err := b.storage.DeleteMainChainHash(height); err != nil {
			return err
		}
	}
	for _, block := range attachBlocks {
		if err := b.storage.SetMainChainHash(block.Height(), block.Hash()); err != nil {
			return err
		}
	}
	if err := b.storage.SetHead(newTip.hash); err != nil {
		return err
	}
	b.headNode = newTip

	log.Infof("REORGANIZE: chain rebranched to %s at height %d, fork "+
		"point %s at height %d", newTip.hash, newTip.height, forkNode.hash,
		forkNode.height)
	return nil
}

// HeadHash returns the hash of the current main chain tip.
//
// This function is safe for concurrent access.
func (b *Blockchain) HeadHash() *chainhash.Hash {
	b.chainLock.RLock()
	hash := b.headNode.hash
	b.chainLock.RUnlock()
	return hash
}

// Height returns the height of the current main chain tip.
//
// This function is safe for concurrent access.
func (b *Blockchain) Height() uint32 {
	b.chainLock.RLock()
	height := b.headNode.height
	b.chainLock.RUnlock()
	return height
}

// BlockByHash returns the block with the given hash, whether it is on the
// main chain or on a side branch. It returns nil when the block is unknown.
//
// This function is safe for concurrent access.
func (b *Blockchain) BlockByHash(hash *chainhash.Hash) (*util.Block, error) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	return b.storage.GetBlock(hash)
}

// BlockByHeight returns the main chain block at the given height. It returns
// nil when the height is beyond the tip or below the checkpoint.
//
// This function is safe for concurrent access.
func (b *Blockchain) BlockByHeight(height uint32) (*util.Block, error) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	hash, err := b.storage.GetMainChainHash(height)
	if err != nil || hash == nil {
		return nil, err
	}
	return b.storage.GetBlock(hash)
}

// MainChainHasBlock returns whether the block with the given hash is on the
// main chain.
//
// This function is safe for concurrent access.
func (b *Blockchain) MainChainHasBlock(hash *chainhash.Hash) bool {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	node := b.index.LookupNode(hash)
	return node != nil && b.headNode.Ancestor(node.height) == node
}
