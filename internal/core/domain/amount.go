package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places money is kept at.
const AmountScale = 2

// RoundAmount rounds half away from zero to AmountScale places,
// which is half-up for the positive amounts the ledger holds.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// ValidateAmount accepts amounts > 0 with at most AmountScale decimals.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Round(AmountScale)) {
		return ErrInvalidAmount
	}
	return nil
}
