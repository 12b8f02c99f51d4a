package intents

import "errors"

var (
	// ErrInvalidAmount rejects non-positive amounts before any network call.
	ErrInvalidAmount = errors.New("amount must be greater than 0")

	// ErrNoLiquidity means the solver bus returned zero options for a
	// request. Recoverable; the caller may retry later.
	ErrNoLiquidity = errors.New("no swap options available")

	// ErrNoOptions means the selector was invoked on an empty list.
	// Defensive: unreachable when ErrNoLiquidity is checked first.
	ErrNoOptions = errors.New("no options provided")

	// ErrSigning means the signer rejected or failed to sign the
	// canonical payload. Fatal to the swap attempt.
	ErrSigning = errors.New("failed to sign intent")
)
