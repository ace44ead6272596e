package model

import "github.com/shopspring/decimal"

// LineTotal returns unitPrice × quantity without float rounding drift.
func LineTotal(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// Amount rounds a decimal sum to cents for storage and JSON.
func Amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
