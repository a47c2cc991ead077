package domain

import "github.com/shopspring/decimal"

// CashFlowYear is one simulated year of the financial projection
type CashFlowYear struct {
	Year                   int             `json:"year"`
	CalendarYear           int             `json:"calendarYear"`
	TariffRate             decimal.Decimal `json:"tariffRate"`
	ConsumptionKwh         decimal.Decimal `json:"consumptionKwh"`
	ProductionKwh          decimal.Decimal `json:"productionKwh"`
	CompensatedKwh         decimal.Decimal `json:"compensatedKwh"`
	NonCompensableFraction decimal.Decimal `json:"nonCompensableFraction"`
	CostWithoutSolar       decimal.Decimal `json:"costWithoutSolar"`
	CompensableEconomy     decimal.Decimal `json:"compensableEconomy"`
	NonCompensableResidual decimal.Decimal `json:"nonCompensableResidual"`
	Maintenance            decimal.Decimal `json:"maintenance"`
	InverterReplacement    decimal.Decimal `json:"inverterReplacement"`
	Investment             decimal.Decimal `json:"investment"`
	CostWithSolar          decimal.Decimal `json:"costWithSolar"`
	CashFlow               decimal.Decimal `json:"cashFlow"`
	Cumulative             decimal.Decimal `json:"cumulative"`
	Discounted             decimal.Decimal `json:"discounted"`
}

// NetSavings is the bill reduction for the year before maintenance and investment.
func (y CashFlowYear) NetSavings() decimal.Decimal {
	return y.CompensableEconomy.Sub(y.NonCompensableResidual)
}

// Payback describes when the cumulative cash flow turns non-negative.
// Reached is false when that never happens inside the horizon, in which case
// the pointer fields are nil.
type Payback struct {
	Reached         bool             `json:"reached"`
	Year            *int             `json:"year"`
	Years           *int             `json:"years"`
	Months          *int             `json:"months"`
	FractionalYears *decimal.Decimal `json:"fractionalYears"`
}

// TotalMonths returns Years*12 + Months, or false when payback was not reached.
func (p Payback) TotalMonths() (int, bool) {
	if !p.Reached || p.Years == nil || p.Months == nil {
		return 0, false
	}
	return *p.Years*12 + *p.Months, true
}

// ProjectFinancials are the headline metrics over a projection
type ProjectFinancials struct {
	MonthlySavings      decimal.Decimal `json:"monthlySavings"`
	AnnualSavings       decimal.Decimal `json:"annualSavings"`
	Payback             Payback         `json:"payback"`
	NPV                 decimal.Decimal `json:"npv"`
	TotalCompensable    decimal.Decimal `json:"totalCompensable"`
	TotalNonCompensable decimal.Decimal `json:"totalNonCompensable"`
	TotalCashFlow       decimal.Decimal `json:"totalCashFlow"`
	PercentEconomy      decimal.Decimal `json:"percentEconomy"`
}
