package domain

import "errors"

// Sentinel errors returned by repositories and the rate table.
// Services translate them into apperror values.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrUnknownPair         = errors.New("unknown currency pair")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownKind         = errors.New("unknown transaction kind")
)
