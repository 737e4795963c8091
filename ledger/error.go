// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import "fmt"

// ErrorCode identifies a kind of ledger failure.
type ErrorCode int

// These constants are used to identify a specific LedgerError.
const (
	// ErrUnknownState indicates a state root that the ledger has no
	// snapshot for.
	ErrUnknownState ErrorCode = iota

	// ErrClosedTransaction indicates an operation on a transaction that
	// was already committed or aborted.
	ErrClosedTransaction

	// ErrBadSignature indicates a transaction signature that does not
	// verify against the sender public key.
	ErrBadSignature

	// ErrBadNonce indicates a transaction nonce that does not match the
	// sender account's next nonce.
	ErrBadNonce

	// ErrInsufficientFunds indicates a sender balance too small to cover a
	// transaction's value plus fee.
	ErrInsufficientFunds

	// ErrOverflow indicates a balance that would overflow its 64-bit
	// representation.
	ErrOverflow
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnknownState:      "ErrUnknownState",
	ErrClosedTransaction: "ErrClosedTransaction",
	ErrBadSignature:      "ErrBadSignature",
	ErrBadNonce:          "ErrBadNonce",
	ErrInsufficientFunds: "ErrInsufficientFunds",
	ErrOverflow:          "ErrOverflow",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// LedgerError identifies a ledger rule violation or misuse of the ledger
// API. The caller can use type assertions to access the ErrorCode field and
// ascertain the specific reason for the failure.
type LedgerError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e LedgerError) Error() string {
	return e.Description
}

// ledgerError creates a LedgerError given a set of arguments.
func ledgerError(c ErrorCode, desc string) LedgerError {
	return LedgerError{ErrorCode: c, Description: desc}
}
