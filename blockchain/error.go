// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a kind of block validation failure.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrBlockVersion indicates the block version is unknown.
	ErrBlockVersion ErrorCode = iota

	// ErrBlockTooBig indicates the serialized block size exceeds the
	// maximum allowed size.
	ErrBlockTooBig

	// ErrNullPrevBlock indicates a block other than the genesis block
	// carries the all-zero previous block hash. Such a block can never have
	// a parent, so it is invalid rather than an orphan.
	ErrNullPrevBlock

	// ErrInvalidHeight indicates a block does not have the height of its
	// parent plus one, or claims height zero without being the genesis
	// block.
	ErrInvalidHeight

	// ErrTimeTooOld indicates the timestamp of a block is before the
	// timestamp of its parent.
	ErrTimeTooOld

	// ErrTimeTooNew indicates the timestamp of a block is too far in the
	// future.
	ErrTimeTooNew

	// ErrUnexpectedDifficulty indicates the bits field does not match the
	// difficulty required at the block's position in the chain, or does
	// not decode to a valid target at all.
	ErrUnexpectedDifficulty

	// ErrHighHash indicates the block hash does not satisfy the target
	// difficulty encoded in its bits field.
	ErrHighHash

	// ErrBadBodyHash indicates the body hash committed to by the header
	// does not match the actual hash of the serialized body.
	ErrBadBodyHash

	// ErrBadInterlinkHash indicates the interlink hash committed to by the
	// header does not match the actual hash of the serialized interlink.
	ErrBadInterlinkHash

	// ErrBadInterlink indicates the interlink differs from the one
	// prescribed by the parent block and the block's own target.
	ErrBadInterlink

	// ErrTransactionOrder indicates the transactions of a body are not in
	// the canonical order, or a sender appears more than once.
	ErrTransactionOrder

	// ErrInvalidBody indicates the body could not be applied to the
	// ledger, for example because of an invalid signature or insufficient
	// sender balance.
	ErrInvalidBody

	// ErrBadAccountsHash indicates the accounts hash committed to by the
	// header does not match the ledger state after applying the body.
	ErrBadAccountsHash
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrBlockVersion:         "ErrBlockVersion",
	ErrBlockTooBig:          "ErrBlockTooBig",
	ErrNullPrevBlock:        "ErrNullPrevBlock",
	ErrInvalidHeight:        "ErrInvalidHeight",
	ErrTimeTooOld:           "ErrTimeTooOld",
	ErrTimeTooNew:           "ErrTimeTooNew",
	ErrUnexpectedDifficulty: "ErrUnexpectedDifficulty",
	ErrHighHash:             "ErrHighHash",
	ErrBadBodyHash:          "ErrBadBodyHash",
	ErrBadInterlinkHash:     "ErrBadInterlinkHash",
	ErrBadInterlink:         "ErrBadInterlink",
	ErrTransactionOrder:     "ErrTransactionOrder",
	ErrInvalidBody:          "ErrInvalidBody",
	ErrBadAccountsHash:      "ErrBadAccountsHash",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation rules. The
// caller can use type assertions to determine if a failure was specifically
// due to a rule violation and access the ErrorCode field to ascertain the
// specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
