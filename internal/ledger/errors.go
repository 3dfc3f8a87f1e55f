package ledger

import "errors"

var (
	// ErrNotFound is returned when an operation references a record id that
	// does not exist in the ledger. It is always fatal to the calling
	// operation; probing callers should use Exists or the boolean Drop/Close.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned for malformed creation requests, such as a
	// bill maturity outside the allowed set or a missing issuer/holder.
	ErrValidation = errors.New("validation failed")
)
