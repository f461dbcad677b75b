package domain

import "github.com/shopspring/decimal"

func init() {
	// Persisted collections store prices as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money builds a decimal from a float literal. Intended for seed data and tests.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Format2 renders an amount fixed to two decimals.
func Format2(d decimal.Decimal) string {
	return d.StringFixed(2)
}
