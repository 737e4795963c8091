package blockchain

import (
	"testing"
	"time"

	"github.com/embercoin/emberd/chaincfg"
	"github.com/embercoin/emberd/util"
	"github.com/embercoin/emberd/util/address"
	"github.com/embercoin/emberd/util/chainhash"
	"github.com/embercoin/emberd/wire"
)

// solveHeader searches for a nonce satisfying the header's own bits field.
// Only usable with simnet-grade difficulties.
func solveHeader(t *testing.T, header *wire.BlockHeader, params *chaincfg.Params) {
	t.Helper()
	target, err := util.CompactToTarget(header.Bits, params.PowMax)
	if err != nil {
		t.Fatalf("CompactToTarget: %v", err)
	}
	for nonce := uint32(0); ; nonce++ {
		header.Nonce = nonce
		if util.HashMeetsTarget(header.BlockHash(), target) {
			return
		}
	}
}

// unsolveHeader searches for a nonce violating the header's bits field.
func unsolveHeader(t *testing.T, header *wire.BlockHeader, params *chaincfg.Params) {
	t.Helper()
	target, err := util.CompactToTarget(header.Bits, params.PowMax)
	if err != nil {
		t.Fatalf("CompactToTarget: %v", err)
	}
	for nonce := uint32(0); ; nonce++ {
		header.Nonce = nonce
		if !util.HashMeetsTarget(header.BlockHash(), target) {
			return
		}
	}
}

// ruleErrorCode extracts the error code of a RuleError, failing the test for
// other error types.
func ruleErrorCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	rerr, ok := err.(RuleError)
	if !ok {
		t.Fatalf("expected a RuleError, got %T: %v", err, err)
	}
	return rerr.ErrorCode
}

// genesisTime returns a clock time right after the simnet genesis timestamp.
func genesisTime() time.Time {
	return time.Unix(int64(chaincfg.SimNetParams.GenesisBlock.Header.Timestamp), 0)
}

// childMsgBlock assembles an unsolved height-1 block on the genesis block
// with an empty body. The interlink is not the prescribed one; that is only
// checked with chain context, while these tests exercise the context-free
// checks.
func childMsgBlock(params *chaincfg.Params) *wire.MsgBlock {
	interlink := wire.NewBlockInterlink([]*chainhash.Hash{params.GenesisHash})
	body := wire.NewBlockBody(address.ZeroAddress, nil)
	header := wire.NewBlockHeader(params.GenesisHash, interlink.Hash(),
		body.Hash(), &chainhash.ZeroHash, params.PowLimitBits, 1,
		params.GenesisBlock.Header.Timestamp)
	return wire.NewMsgBlock(header, interlink, body)
}

func TestCheckProofOfWork(t *testing.T) {
	params := &chaincfg.SimNetParams
	genesis := util.NewBlock(params.GenesisBlock)

	if err := checkProofOfWork(genesis, params); err != nil {
		t.Fatalf("checkProofOfWork on the genesis block: %v", err)
	}

	// A header whose hash misses its own target must be rejected.
	msgBlock := *params.GenesisBlock
	unsolveHeader(t, &msgBlock.Header, params)
	unsolved := util.NewBlock(&msgBlock)
	err := checkProofOfWork(unsolved, params)
	if ruleErrorCode(t, err) != ErrHighHash {
		t.Errorf("got %v, want ErrHighHash", err)
	}

	// Unless its hash is a former network checkpoint.
	exemptParams := *params
	exemptParams.OldCheckpointHashes = []chainhash.Hash{*unsolved.Hash()}
	if err := checkProofOfWork(unsolved, &exemptParams); err != nil {
		t.Errorf("checkProofOfWork on an old checkpoint: %v", err)
	}

	// Bits that do not decode to a valid target must be rejected.
	badBits := *params.GenesisBlock
	badBits.Header.Bits = 0
	err = checkProofOfWork(util.NewBlock(&badBits), params)
	if ruleErrorCode(t, err) != ErrUnexpectedDifficulty {
		t.Errorf("got %v, want ErrUnexpectedDifficulty", err)
	}
}

func TestCheckBlockSanity(t *testing.T) {
	params := &chaincfg.SimNetParams

	// The genesis block is the one block allowed to carry a null previous
	// block hash and height zero.
	genesis := util.NewBlock(params.GenesisBlock)
	if err := checkBlockSanity(genesis, params, genesisTime()); err != nil {
		t.Fatalf("checkBlockSanity on the genesis block: %v", err)
	}

	// And a well-formed child passes too.
	valid := childMsgBlock(params)
	solveHeader(t, &valid.Header, params)
	if err := checkBlockSanity(util.NewBlock(valid), params, genesisTime()); err != nil {
		t.Fatalf("checkBlockSanity on a well-formed block: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(msgBlock *wire.MsgBlock)
		code   ErrorCode
	}{
		{
			name: "unknown version",
			mutate: func(msgBlock *wire.MsgBlock) {
				msgBlock.Header.Version = 2
			},
			code: ErrBlockVersion,
		},
		{
			name: "null previous block hash",
			mutate: func(msgBlock *wire.MsgBlock) {
				msgBlock.Header.PrevBlock = chainhash.ZeroHash
			},
			code: ErrNullPrevBlock,
		},
		{
			name: "zero height outside genesis",
			mutate: func(msgBlock *wire.MsgBlock) {
				msgBlock.Header.Height = 0
			},
			code: ErrInvalidHeight,
		},
		{
			name: "timestamp too far in the future",
			mutate: func(msgBlock *wire.MsgBlock) {
				msgBlock.Header.Timestamp += maxTimeOffset + 1
			},
			code: ErrTimeTooNew,
		},
		{
			name: "interlink commitment mismatch",
			mutate: func(msgBlock *wire.MsgBlock) {
				msgBlock.Interlink.Hashes = []*chainhash.Hash{{0x01}}
			},
			code: ErrBadInterlinkHash,
		},
		{
			name: "body commitment mismatch",
			mutate: func(msgBlock *wire.MsgBlock) {
				msgBlock.Body.MinerAddr = address.Address{0x01}
			},
			code: ErrBadBodyHash,
		},
	}

	for _, test := range tests {
		msgBlock := childMsgBlock(params)
		test.mutate(msgBlock)
		// Re-solve so the proof of work check cannot mask the mutation.
		solveHeader(t, &msgBlock.Header, params)

		err := checkBlockSanity(util.NewBlock(msgBlock), params, genesisTime())
		if err == nil {
			t.Errorf("%s: no error", test.name)
			continue
		}
		if got := ruleErrorCode(t, err); got != test.code {
			t.Errorf("%s: got %v, want %v", test.name, got, test.code)
		}
	}
}

func TestCheckBlockSanityTransactionOrder(t *testing.T) {
	params := &chaincfg.SimNetParams

	// Two transactions from distinct senders, deliberately misordered. The
	// signatures don't matter here; order checks precede any signature
	// verification.
	txA := &wire.MsgTx{Value: 1}
	txA.SenderPubKey[0] = 0x01
	txB := &wire.MsgTx{Value: 2}
	txB.SenderPubKey[0] = 0x02

	first, second := txA, txB
	if second.Less(first) {
		first, second = second, first
	}

	tests := []struct {
		name string
		txs  []*wire.MsgTx
	}{
		{"reversed order", []*wire.MsgTx{second, first}},
		{"duplicate transaction", []*wire.MsgTx{first, first}},
		{
			"same sender twice",
			[]*wire.MsgTx{
				first,
				func() *wire.MsgTx {
					dup := *first
					dup.Nonce++
					return &dup
				}(),
			},
		},
	}

	for _, test := range tests {
		msgBlock := childMsgBlock(params)
		msgBlock.Body = *wire.NewBlockBody(address.ZeroAddress, test.txs)
		msgBlock.Header.BodyHash = *msgBlock.Body.Hash()
		solveHeader(t, &msgBlock.Header, params)

		err := checkBlockSanity(util.NewBlock(msgBlock), params, genesisTime())
		if err == nil {
			t.Errorf("%s: no error", test.name)
			continue
		}
		if got := ruleErrorCode(t, err); got != ErrTransactionOrder {
			t.Errorf("%s: got %v, want ErrTransactionOrder", test.name, got)
		}
	}
}
