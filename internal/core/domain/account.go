package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is one of the three balances an account holds.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Currencies lists every supported currency in display order.
var Currencies = []Currency{CurrencyINR, CurrencyUSD, CurrencyEUR}

// ParseCurrency maps a case-insensitive code to a Currency.
func ParseCurrency(code string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(code))) {
	case CurrencyINR:
		return CurrencyINR, nil
	case CurrencyUSD:
		return CurrencyUSD, nil
	case CurrencyEUR:
		return CurrencyEUR, nil
	default:
		return "", ErrUnsupportedCurrency
	}
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyINR, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

func (c Currency) String() string { return string(c) }

// Starting balances credited at signup.
var (
	DefaultBalanceINR = decimal.RequireFromString("25500.00")
	DefaultBalanceUSD = decimal.RequireFromString("500.00")
	DefaultBalanceEUR = decimal.RequireFromString("300.00")
)

// Balances holds the three per-currency balances of an account.
type Balances struct {
	INR decimal.Decimal `json:"balance_inr"`
	USD decimal.Decimal `json:"balance_usd"`
	EUR decimal.Decimal `json:"balance_eur"`
}

// DefaultBalances returns the balances a new account starts with.
func DefaultBalances() Balances {
	return Balances{INR: DefaultBalanceINR, USD: DefaultBalanceUSD, EUR: DefaultBalanceEUR}
}

// Of returns the balance held in c. Unsupported currencies read as zero.
func (b Balances) Of(c Currency) decimal.Decimal {
	switch c {
	case CurrencyINR:
		return b.INR
	case CurrencyUSD:
		return b.USD
	case CurrencyEUR:
		return b.EUR
	default:
		return decimal.Zero
	}
}

// With returns a copy of b with the balance in c replaced.
func (b Balances) With(c Currency, v decimal.Decimal) Balances {
	switch c {
	case CurrencyINR:
		b.INR = v
	case CurrencyUSD:
		b.USD = v
	case CurrencyEUR:
		b.EUR = v
	}
	return b
}

// NonNegative reports whether every balance is >= 0.
func (b Balances) NonNegative() bool {
	return !b.INR.IsNegative() && !b.USD.IsNegative() && !b.EUR.IsNegative()
}

// Account is a registered user together with its balances.
type Account struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	PasswordHash  string    `json:"-"` // Never expose
	Balances      Balances  `json:"balances"`
	CreatedAt     time.Time `json:"created_at"`
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
