package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the direction of a ledger entry.
type TransactionKind string

const (
	TransactionKindSent       TransactionKind = "sent"
	TransactionKindReceived   TransactionKind = "received"
	TransactionKindConversion TransactionKind = "conversion"
)

// KindFilterAll is the history filter meaning "every kind".
const KindFilterAll = "all"

// ParseKindFilter turns a history filter into an optional kind.
// Empty and "all" yield nil.
func ParseKindFilter(s string) (*TransactionKind, error) {
	switch s {
	case "", KindFilterAll:
		return nil, nil
	}
	k := TransactionKind(s)
	if !k.Valid() {
		return nil, ErrUnknownKind
	}
	return &k, nil
}

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindSent, TransactionKindReceived, TransactionKindConversion:
		return true
	}
	return false
}

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// ReferencePrefix tags human-facing transaction references.
const ReferencePrefix = "TXN"

// DefaultSendDescription is used when a transfer carries no message.
const DefaultSendDescription = "Payment sent"

// Recipient describes the external party of an outgoing transfer.
// It is never resolved to an Account.
type Recipient struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

// TransactionRecord is an immutable ledger entry.
type TransactionRecord struct {
	ID          int64             `json:"id"` // Assigned by the ledger
	AccountID   uuid.UUID         `json:"account_id"`
	Kind        TransactionKind   `json:"type"`
	Recipient   *Recipient        `json:"recipient,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    Currency          `json:"currency"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Reference returns the human-facing reference, e.g. TXN42.
func (t *TransactionRecord) Reference() string {
	return FormatReference(t.ID)
}

// FormatReference builds a reference from a ledger id.
func FormatReference(id int64) string {
	return fmt.Sprintf("%s%d", ReferencePrefix, id)
}
