package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Zero is the additive identity for money values.
var Zero = decimal.Zero

// FromCents converts an integer cent amount to a decimal money value.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// FromFloat converts a float amount (as received on the wire) to money,
// rounded to two decimal places.
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

// Percent returns amount * percent / 100, rounded to two decimal places.
func Percent(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred).Round(2)
}

// FloorZero clamps a money value at zero; totals never go negative.
func FloorZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// ValidPercent reports whether the value is a usable discount percentage.
func ValidPercent(percent decimal.Decimal) bool {
	return !percent.IsNegative() && percent.LessThanOrEqual(hundred)
}
