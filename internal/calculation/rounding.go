package calculation

import "github.com/shopspring/decimal"

var (
	one      = decimal.NewFromInt(1)
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
	twelve   = decimal.NewFromInt(12)
)

// roundCurrency rounds to the smallest currency unit (cents)
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
