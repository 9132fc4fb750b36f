package model

import "github.com/shopspring/decimal"

// Amount is a monetary value with two decimal places.
type Amount = decimal.Decimal

// AmountFromCents converts an integer number of cents into an Amount.
func AmountFromCents(cents int64) Amount {
	return decimal.New(cents, -2)
}

// AmountToCents converts an Amount into integer cents, rounding half away from zero.
func AmountToCents(a Amount) int64 {
	return a.Round(2).Shift(2).IntPart()
}
