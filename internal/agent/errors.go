package agent

import "errors"

var (
	// ErrInsufficientFunds rejects a payment or repayment the payer cannot
	// cover out of balance plus agreed overdraft.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnauthorized rejects an operation on an account the caller does not
	// issue or hold.
	ErrUnauthorized = errors.New("unauthorized account access")

	// ErrIneligible rejects opening an account or facility with a
	// counterparty the institution does not serve.
	ErrIneligible = errors.New("ineligible counterparty")
)
