package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment is a display-only holding owned by an account.
type Investment struct {
	ID           int64           `json:"id"`
	AccountID    uuid.UUID       `json:"account_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Performance  decimal.Decimal `json:"performance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MarketValue is quantity times current price.
func (i *Investment) MarketValue() decimal.Decimal {
	return RoundAmount(i.Quantity.Mul(i.CurrentPrice))
}
