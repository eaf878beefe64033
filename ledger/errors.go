package ledger

import "errors"

var (
	// ErrDepositsDisabled means the daily deposit ceiling for the current
	// target account has been reached.
	ErrDepositsDisabled = errors.New("deposits are currently disabled")

	ErrCodeNotFound    = errors.New("redeem code not found")
	ErrCodeAlreadyUsed = errors.New("redeem code already used")

	// ErrAuthorizationFailed means the code presented to authorize a
	// withdrawal decision is not an unused redeem code.
	ErrAuthorizationFailed = errors.New("withdrawal authorization failed")

	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransition means an approve/decline hit a request that was
	// no longer pending.
	ErrInvalidTransition = errors.New("request is not pending")

	ErrRequestNotFound = errors.New("request not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrRentalNotFound  = errors.New("rental not found")
	ErrUnknownMachine  = errors.New("unknown machine")
)
