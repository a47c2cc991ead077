package calculation

import (
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ResolvePayback finds the first year whose cumulative cash flow is
// non-negative after a negative year (or year 1 itself). Months inside the
// payback year are interpolated from the prior deficit and that year's cash
// flow. When the horizon ends with a negative balance, Reached is false.
func ResolvePayback(years []domain.CashFlowYear) domain.Payback {
	prev := decimal.Zero
	for idx, y := range years {
		i := idx + 1
		if y.Cumulative.IsNegative() {
			prev = y.Cumulative
			continue
		}
		// every earlier year was negative, so this is the crossing year

		fraction := decimal.Zero
		deficit := prev.Neg()
		if deficit.IsPositive() && y.CashFlow.IsPositive() {
			fraction = deficit.Div(y.CashFlow)
		}
		totalMonths := (i-1)*12 + int(fraction.Mul(twelve).Round(0).IntPart())
		yearsPart, monthsPart := totalMonths/12, totalMonths%12
		fractional := decimal.NewFromInt(int64(i - 1)).Add(fraction).Round(2)
		year := y.Year
		if year == 0 {
			year = i
		}
		return domain.Payback{
			Reached:         true,
			Year:            &year,
			Years:           &yearsPart,
			Months:          &monthsPart,
			FractionalYears: &fractional,
		}
	}
	return domain.Payback{Reached: false}
}

// NPV sums the discounted cash flows.
func NPV(years []domain.CashFlowYear) decimal.Decimal {
	total := decimal.Zero
	for _, y := range years {
		total = total.Add(y.Discounted)
	}
	return total
}

// Summarize derives the headline financials from a projection. percentEconomy
// comes from the year-1 tariff decomposition.
func Summarize(years []domain.CashFlowYear, percentEconomy decimal.Decimal) domain.ProjectFinancials {
	f := domain.ProjectFinancials{
		Payback:        ResolvePayback(years),
		NPV:            NPV(years),
		PercentEconomy: percentEconomy,
	}
	for _, y := range years {
		f.TotalCompensable = f.TotalCompensable.Add(y.CompensableEconomy)
		f.TotalNonCompensable = f.TotalNonCompensable.Add(y.NonCompensableResidual)
		f.TotalCashFlow = f.TotalCashFlow.Add(y.CashFlow)
	}
	if len(years) > 0 {
		f.AnnualSavings = years[0].NetSavings()
		f.MonthlySavings = roundCurrency(f.AnnualSavings.Div(twelve))
	}
	return f
}
