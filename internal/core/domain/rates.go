package domain

import "github.com/shopspring/decimal"

// CurrencyPair is an ordered (from, to) pair.
type CurrencyPair struct {
	From Currency
	To   Currency
}

// rateTable holds the only supported pairs. Inverses are listed
// independently and are not exact reciprocals.
var rateTable = map[CurrencyPair]decimal.Decimal{
	{CurrencyINR, CurrencyUSD}: decimal.RequireFromString("0.012"),
	{CurrencyINR, CurrencyEUR}: decimal.RequireFromString("0.011"),
	{CurrencyUSD, CurrencyINR}: decimal.RequireFromString("83.50"),
	{CurrencyUSD, CurrencyEUR}: decimal.RequireFromString("0.92"),
	{CurrencyEUR, CurrencyINR}: decimal.RequireFromString("91.05"),
	{CurrencyEUR, CurrencyUSD}: decimal.RequireFromString("1.09"),
}

// LookupRate returns the multiplier for exactly (from, to).
func LookupRate(from, to Currency) (decimal.Decimal, error) {
	rate, ok := rateTable[CurrencyPair{From: from, To: to}]
	if !ok {
		return decimal.Zero, ErrUnknownPair
	}
	return rate, nil
}

// Pairs returns every supported pair.
func Pairs() []CurrencyPair {
	out := make([]CurrencyPair, 0, len(rateTable))
	for _, from := range Currencies {
		for _, to := range Currencies {
			if _, ok := rateTable[CurrencyPair{from, to}]; ok {
				out = append(out, CurrencyPair{from, to})
			}
		}
	}
	return out
}

// ConvertAmount applies the rate for (from, to) and rounds half-up to
// AmountScale decimal places.
func ConvertAmount(amount decimal.Decimal, from, to Currency) (converted, rate decimal.Decimal, err error) {
	rate, err = LookupRate(from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return RoundAmount(amount.Mul(rate)), rate, nil
}
