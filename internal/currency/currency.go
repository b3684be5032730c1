// Package currency converts between integer cents and display amounts.
// All money in the game is held as int64 cents.
package currency

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FormatMoney renders cents as a two-decimal amount, 1054 -> "10.54".
func FormatMoney(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// DollarsToCents rounds a dollar amount to the nearest cent.
func DollarsToCents(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(hundred).Round(0).IntPart()
}

func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
