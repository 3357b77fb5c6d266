package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferIdempotencyKey scopes a client-supplied Idempotency-Key to
// the acting account so two accounts never share a slot.
func TransferIdempotencyKey(accountID uuid.UUID, clientKey string) string {
	return accountID.String() + ":send:" + clientKey
}

// TransferResult is the outcome of a completed send-money call.
// It is what gets replayed for a repeated idempotency key.
type TransferResult struct {
	TransactionID int64           `json:"transaction_id"`
	Reference     string          `json:"reference"`
	Currency      Currency        `json:"currency"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}
