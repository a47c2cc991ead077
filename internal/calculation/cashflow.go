package calculation

import (
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionInput carries the year-1 state of a project
type ProjectionInput struct {
	Tariff         domain.TariffComponents
	SurchargeLevel domain.SurchargeLevel
	Transition     domain.TransitionTable
	ReferenceYear  int
	// ConsumptionKwh is the year-1 monthly consumption
	ConsumptionKwh decimal.Decimal
	// ProductionKwh is the year-1 annual production
	ProductionKwh decimal.Decimal
	Investment    decimal.Decimal
}

// CashFlowProjector simulates the yearly cash flow of an installation
type CashFlowProjector struct {
	Assumptions domain.FinancialAssumptions
}

// NewCashFlowProjector creates a projector with the given assumptions
func NewCashFlowProjector(a domain.FinancialAssumptions) *CashFlowProjector {
	return &CashFlowProjector{Assumptions: a}
}

func (p *CashFlowProjector) validate(in ProjectionInput) error {
	a := p.Assumptions
	if a.ProjectionYears < 1 {
		return domain.NewInvalidInput("projectionYears", "projection must cover at least one year, got %d", a.ProjectionYears)
	}
	if !in.ConsumptionKwh.IsPositive() {
		return domain.NewInvalidInput("consumption", "consumption must be positive, got %s", in.ConsumptionKwh)
	}
	if !in.ProductionKwh.IsPositive() {
		return domain.NewInvalidInput("production", "production must be positive, got %s", in.ProductionKwh)
	}
	if in.Investment.IsNegative() {
		return domain.NewInvalidInput("investment", "investment cannot be negative, got %s", in.Investment)
	}
	if a.DegradationRate.IsNegative() || a.DegradationRate.GreaterThanOrEqual(one) {
		return domain.NewInvalidInput("degradationRate", "degradation rate must be in [0, 1), got %s", a.DegradationRate)
	}
	if a.DiscountRate.LessThanOrEqual(one.Neg()) {
		return domain.NewInvalidInput("discountRate", "discount rate must be greater than -1, got %s", a.DiscountRate)
	}
	return nil
}

// Project folds over the projection horizon. Year 1 carries the investment.
//
// The compensable economy is the bill value credited by the compensated
// energy. The residual is the non-compensable share of the distribution
// charge, with taxes and tariff inflation, that stays billed on that energy.
func (p *CashFlowProjector) Project(in ProjectionInput) ([]domain.CashFlowYear, error) {
	if err := p.validate(in); err != nil {
		return nil, err
	}
	a := p.Assumptions
	level := domain.ParseSurchargeLevel(string(in.SurchargeLevel))
	rate1 := in.Tariff.TotalRateWithTaxes(level)
	taxMultiplier := in.Tariff.Taxes.Multiplier()

	inflation := one.Add(a.TariffInflationRate)
	growth := one.Add(a.ConsumptionGrowthRate)
	retention := one.Sub(a.DegradationRate)
	discount := one.Add(a.DiscountRate)

	maintenance := roundCurrency(percentOf(in.Investment, a.MaintenanceRatePercent))
	inverter := roundCurrency(in.Investment.Mul(a.InverterReplacementCostFraction))

	inflFactor, growthFactor, prodFactor, discFactor := one, one, one, one
	cumulative := decimal.Zero
	years := make([]domain.CashFlowYear, 0, a.ProjectionYears)

	for i := 1; i <= a.ProjectionYears; i++ {
		if i > 1 {
			inflFactor = inflFactor.Mul(inflation)
			growthFactor = growthFactor.Mul(growth)
			prodFactor = prodFactor.Mul(retention)
		}
		discFactor = discFactor.Mul(discount)

		rate := rate1.Mul(inflFactor)
		monthly := in.ConsumptionKwh.Mul(growthFactor)
		annual := monthly.Mul(twelve)
		production := in.ProductionKwh.Mul(prodFactor)
		calendarYear := in.ReferenceYear + i - 1

		dec := DecomposeTariff(in.Tariff, in.Transition, monthly, level, calendarYear)
		compensated := minDecimal(production, annual)
		share := decimal.Zero
		if annual.IsPositive() {
			share = compensated.Div(annual)
		}

		y := domain.CashFlowYear{
			Year:                   i,
			CalendarYear:           calendarYear,
			TariffRate:             rate.Round(6),
			ConsumptionKwh:         annual.Round(2),
			ProductionKwh:          production.Round(2),
			CompensatedKwh:         compensated.Round(2),
			NonCompensableFraction: dec.NonCompensableFraction,
			CostWithoutSolar:       roundCurrency(annual.Mul(rate)),
			Maintenance:            maintenance,
		}
		y.CompensableEconomy = roundCurrency(y.CostWithoutSolar.Mul(share))
		y.NonCompensableResidual = roundCurrency(
			dec.NonCompensableDistribution.Mul(taxMultiplier).Mul(twelve).Mul(inflFactor).Mul(share))
		if i == a.InverterReplacementYear {
			y.InverterReplacement = inverter
		}
		if i == 1 {
			y.Investment = in.Investment
		}

		y.CostWithSolar = y.CostWithoutSolar.
			Sub(y.CompensableEconomy).
			Add(y.NonCompensableResidual).
			Add(y.Maintenance).
			Add(y.InverterReplacement)
		y.CashFlow = y.CompensableEconomy.
			Sub(y.NonCompensableResidual).
			Sub(y.Maintenance).
			Sub(y.InverterReplacement).
			Sub(y.Investment)

		cumulative = cumulative.Add(y.CashFlow)
		y.Cumulative = cumulative
		y.Discounted = roundCurrency(y.CashFlow.Div(discFactor))
		years = append(years, y)
	}
	return years, nil
}
