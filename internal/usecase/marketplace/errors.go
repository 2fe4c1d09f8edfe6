package marketplace

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrModeNotFound         = errors.New("service mode not found")
	ErrProviderNotFound     = errors.New("provider not found")
	ErrBidNotFound          = errors.New("bid not found")
	ErrNoQuote              = errors.New("task has no quote")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrPaymentInProgress    = errors.New("payment already in progress")
)
