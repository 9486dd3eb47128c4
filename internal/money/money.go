// Package money converts between decimal amounts and the integer cents the
// database stores.
package money

import "github.com/shopspring/decimal"

func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// Extended returns unit * qty.
func Extended(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}
