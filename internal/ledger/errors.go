package ledger

import "errors"

// Expected, recoverable conditions surfaced to the presentation layer.
var (
	ErrAlreadyClaimed      = errors.New("daily bonus already claimed today")
	ErrUnknownReward       = errors.New("unknown reward")
	ErrInsufficientBalance = errors.New("insufficient star balance")
)
