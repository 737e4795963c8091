// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kaspanet/go-secp256k1"

	"github.com/embercoin/emberd/blockchain"
	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/util/binaryserializer"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// Account is the state of a single account: its spendable balance and the
// nonce its next transaction must carry.
type Account struct {
	Balance uint64
	Nonce   uint32
}

// Ledger is a content-addressed store of account states. Every state is a
// full snapshot of all accounts, identified by the root hash of its
// canonical serialization; committing a new state never invalidates older
// ones, so the chain can reopen the state at any fork point when it
// rebranches.
type Ledger struct {
	mtx         sync.RWMutex
	states      map[chainhash.Hash]map[address.Address]Account
	baseSubsidy uint64
}

// New returns an empty ledger with the given per-block miner subsidy. The
// empty state is seeded immediately, since it is the state the genesis block
// commits to.
func New(baseSubsidy uint64) *Ledger {
	l := &Ledger{
		states:      make(map[chainhash.Hash]map[address.Address]Account),
		baseSubsidy: baseSubsidy,
	}
	empty := make(map[address.Address]Account)
	l.states[stateRoot(empty)] = empty
	return l
}

// EmptyRoot returns the root hash of the empty ledger state.
func EmptyRoot() *chainhash.Hash {
	root := stateRoot(nil)
	return &root
}

// OpenTransaction returns a mutable view of the state identified by root.
func (l *Ledger) OpenTransaction(root *chainhash.Hash) (blockchain.LedgerTransaction, error) {
	l.mtx.RLock()
	state, ok := l.states[*root]
	l.mtx.RUnlock()
	if !ok {
		str := fmt.Sprintf("no ledger state with root %s", root)
		return nil, ledgerError(ErrUnknownState, str)
	}

	accounts := make(map[address.Address]Account, len(state))
	for addr, account := range state {
		accounts[addr] = account
	}
	return &Transaction{ledger: l, accounts: accounts}, nil
}

// Account returns the account with the given address in the state identified
// by root. A missing account is returned as the zero account.
func (l *Ledger) Account(root *chainhash.Hash, addr address.Address) (Account, error) {
	l.mtx.RLock()
	state, ok := l.states[*root]
	l.mtx.RUnlock()
	if !ok {
		str := fmt.Sprintf("no ledger state with root %s", root)
		return Account{}, ledgerError(ErrUnknownState, str)
	}
	return state[addr], nil
}

// commit stores the passed state under its root. The transaction hands over
// ownership of the accounts map.
func (l *Ledger) commit(accounts map[address.Address]Account) {
	root := stateRoot(accounts)
	l.mtx.Lock()
	l.states[root] = accounts
	l.mtx.Unlock()
	log.Debugf("Committed ledger state %s with %d accounts", root,
		len(accounts))
}

// Transaction is a mutable view of a ledger state. It is not safe for
// concurrent use.
type Transaction struct {
	ledger   *Ledger
	accounts map[address.Address]Account
	closed   bool
}

// CommitBlockBody applies a block body to the view: every transaction is
// verified and applied in order, then the miner is credited the block
// subsidy plus the collected fees. On any failure the view is left exactly
// as it was.
func (tx *Transaction) CommitBlockBody(body *wire.BlockBody) error {
	if tx.closed {
		return ledgerError(ErrClosedTransaction,
			"CommitBlockBody on a closed ledger transaction")
	}

	// Work on a scratch copy so a failing transaction in the middle of the
	// body does not leave a half-applied view behind.
	accounts := make(map[address.Address]Account, len(tx.accounts)+2)
	for addr, account := range tx.accounts {
		accounts[addr] = account
	}

	var totalFees uint64
	for i, blockTx := range body.Transactions {
		if err := checkTransactionSignature(blockTx); err != nil {
			return err
		}

		value, fee := blockTx.Value, blockTx.Fee
		if value+fee < value {
			str := fmt.Sprintf("transaction %d value and fee overflow", i)
			return ledgerError(ErrOverflow, str)
		}

		sender := blockTx.SenderAddress()
		account := accounts[sender]
		if blockTx.Nonce != account.Nonce {
			str := fmt.Sprintf("transaction %d nonce is %d, sender %s "+
				"expects %d", i, blockTx.Nonce, sender, account.Nonce)
			return ledgerError(ErrBadNonce, str)
		}
		if account.Balance < value+fee {
			str := fmt.Sprintf("transaction %d spends %d but sender %s "+
				"only has %d", i, value+fee, sender, account.Balance)
			return ledgerError(ErrInsufficientFunds, str)
		}

		account.Balance -= value + fee
		account.Nonce++
		setAccount(accounts, sender, account)

		recipient := accounts[blockTx.Recipient]
		if recipient.Balance+value < recipient.Balance {
			str := fmt.Sprintf("transaction %d overflows the balance of "+
				"recipient %s", i, blockTx.Recipient)
			return ledgerError(ErrOverflow, str)
		}
		recipient.Balance += value
		setAccount(accounts, blockTx.Recipient, recipient)

		totalFees += fee
	}

	// Credit the miner. The genesis body has the zero miner address, which
	// simply accrues an unspendable balance like any other address.
	miner := accounts[body.MinerAddr]
	payout := tx.ledger.baseSubsidy + totalFees
	if miner.Balance+payout < miner.Balance {
		str := fmt.Sprintf("block payout overflows the balance of miner %s",
			body.MinerAddr)
		return ledgerError(ErrOverflow, str)
	}
	miner.Balance += payout
	setAccount(accounts, body.MinerAddr, miner)

	tx.accounts = accounts
	return nil
}

// Hash returns the root of the view's current state.
func (tx *Transaction) Hash() *chainhash.Hash {
	root := stateRoot(tx.accounts)
	return &root
}

// Commit persists the view's state under its root hash and closes the
// transaction.
func (tx *Transaction) Commit() error {
	if tx.closed {
		return ledgerError(ErrClosedTransaction,
			"Commit on a closed ledger transaction")
	}
	tx.closed = true
	tx.ledger.commit(tx.accounts)
	tx.accounts = nil
	return nil
}

// Abort discards the view.
func (tx *Transaction) Abort() error {
	if tx.closed {
		return ledgerError(ErrClosedTransaction,
			"Abort on a closed ledger transaction")
	}
	tx.closed = true
	tx.accounts = nil
	return nil
}

// GetAccount returns the account with the given address in the view's
// current state. A missing account is returned as the zero account.
func (tx *Transaction) GetAccount(addr address.Address) Account {
	return tx.accounts[addr]
}

// setAccount stores an account, pruning it when it carries no information.
// Pruning keeps the serialization canonical: an account that was drained and
// never used again must not change the root compared to a state where it
// never existed.
func setAccount(accounts map[address.Address]Account, addr address.Address, account Account) {
	if account.Balance == 0 && account.Nonce == 0 {
		delete(accounts, addr)
		return
	}
	accounts[addr] = account
}

// checkTransactionSignature verifies the Schnorr signature of a transaction
// against its sender public key and signing digest.
func checkTransactionSignature(tx *wire.MsgTx) error {
	pubKey, err := secp256k1.DeserializeSchnorrPubKey(tx.SenderPubKey[:])
	if err != nil {
		str := fmt.Sprintf("invalid sender public key: %s", err)
		return ledgerError(ErrBadSignature, str)
	}
	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(tx.Signature[:])
	if err != nil {
		str := fmt.Sprintf("invalid signature encoding: %s", err)
		return ledgerError(ErrBadSignature, str)
	}

	secpHash := secp256k1.Hash(*tx.SigHash())
	if !pubKey.SchnorrVerify(&secpHash, signature) {
		str := fmt.Sprintf("transaction %s has an invalid signature",
			tx.TxHash())
		return ledgerError(ErrBadSignature, str)
	}
	return nil
}

// stateRoot computes the root hash of a state: the digest of the account
// count followed by every account in address order, each serialized as
// address, balance and nonce.
func stateRoot(accounts map[address.Address]Account) chainhash.Hash {
	addrs := make([]address.Address, 0, len(accounts))
	for addr := range accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Cmp(&addrs[j]) < 0
	})

	hw := chainhash.NewHashWriter()
	// Writes to a hash writer cannot fail.
	_ = wire.WriteVarInt(hw, uint64(len(addrs)))
	for _, addr := range addrs {
		account := accounts[addr]
		_, _ = hw.Write(addr[:])
		_ = binaryserializer.PutUint64(hw, account.Balance)
		_ = binaryserializer.PutUint32(hw, account.Nonce)
	}
	root := hw.Finalize()
	return root
}
