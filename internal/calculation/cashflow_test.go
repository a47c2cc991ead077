package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simpleTariff has a 1.0 base rate and no taxes so expected values are easy to follow.
func simpleTariff() domain.TariffComponents {
	return domain.TariffComponents{
		Distributor:      "SIMPLE",
		ConsumerClass:    domain.ClassResidential,
		EnergyRate:       decimal.RequireFromString("0.4"),
		DistributionRate: decimal.RequireFromString("0.6"),
	}
}

func halfTable() domain.TransitionTable {
	return domain.TransitionTable{
		Fractions: map[int]decimal.Decimal{2020: decimal.RequireFromString("0.5")},
		Ceiling:   decimal.RequireFromString("0.5"),
	}
}

func flatAssumptions(years int) domain.FinancialAssumptions {
	return domain.FinancialAssumptions{ProjectionYears: years}
}

func TestCashFlowProjector_HandComputed(t *testing.T) {
	p := NewCashFlowProjector(flatAssumptions(3))
	years, err := p.Project(ProjectionInput{
		Tariff:         simpleTariff(),
		Transition:     halfTable(),
		ReferenceYear:  2025,
		ConsumptionKwh: decimal.NewFromInt(100),
		ProductionKwh:  decimal.NewFromInt(1200),
		Investment:     decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.Len(t, years, 3)

	y1 := years[0]
	assert.Equal(t, 1, y1.Year)
	assert.Equal(t, 2025, y1.CalendarYear)
	assert.Equal(t, "1200.00", y1.CostWithoutSolar.StringFixed(2))
	assert.Equal(t, "1200.00", y1.CompensableEconomy.StringFixed(2))
	// 100 kWh × 0.6 × 0.5 non-compensable × 12 months
	assert.Equal(t, "360.00", y1.NonCompensableResidual.StringFixed(2))
	assert.Equal(t, "-160.00", y1.CashFlow.StringFixed(2))
	assert.Equal(t, "360.00", y1.CostWithSolar.StringFixed(2))
	assert.True(t, y1.Investment.Equal(decimal.NewFromInt(1000)))

	y2 := years[1]
	assert.True(t, y2.Investment.IsZero())
	assert.Equal(t, "840.00", y2.CashFlow.StringFixed(2))
	assert.Equal(t, "680.00", y2.Cumulative.StringFixed(2))
	assert.Equal(t, "1520.00", years[2].Cumulative.StringFixed(2))
}

func TestCashFlowProjector_CompensationCappedByConsumption(t *testing.T) {
	p := NewCashFlowProjector(flatAssumptions(1))
	years, err := p.Project(ProjectionInput{
		Tariff:         simpleTariff(),
		Transition:     halfTable(),
		ReferenceYear:  2025,
		ConsumptionKwh: decimal.NewFromInt(100),
		ProductionKwh:  decimal.NewFromInt(5000),
		Investment:     decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "1200.00", years[0].CompensatedKwh.StringFixed(2))
	assert.Equal(t, "1200.00", years[0].CompensableEconomy.StringFixed(2))

	under, err := p.Project(ProjectionInput{
		Tariff:         simpleTariff(),
		Transition:     halfTable(),
		ReferenceYear:  2025,
		ConsumptionKwh: decimal.NewFromInt(100),
		ProductionKwh:  decimal.NewFromInt(600),
	})
	require.NoError(t, err)
	assert.Equal(t, "600.00", under[0].CompensableEconomy.StringFixed(2))
	assert.Equal(t, "180.00", under[0].NonCompensableResidual.StringFixed(2))
}

func TestCashFlowProjector_DefaultHorizonProperties(t *testing.T) {
	a := domain.DefaultAssumptions().Financial
	p := NewCashFlowProjector(a)
	years, err := p.Project(ProjectionInput{
		Tariff:         cemigTariff(),
		Transition:     lawTable(),
		ReferenceYear:  2025,
		ConsumptionKwh: decimal.NewFromInt(300),
		ProductionKwh:  decimal.NewFromInt(3900),
		Investment:     decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	require.Len(t, years, 25)

	cumulative := decimal.Zero
	for i, y := range years {
		assert.Equal(t, i+1, y.Year)
		assert.True(t, y.ProductionKwh.IsPositive(), "year %d production must stay positive", y.Year)
		if i > 0 {
			prev := years[i-1]
			assert.True(t, y.ProductionKwh.LessThanOrEqual(prev.ProductionKwh), "year %d production increased", y.Year)
			assert.True(t, y.TariffRate.GreaterThan(prev.TariffRate))
			assert.True(t, y.NonCompensableFraction.GreaterThanOrEqual(prev.NonCompensableFraction))
			assert.True(t, y.Investment.IsZero())
		}
		cumulative = cumulative.Add(y.CashFlow)
		assert.True(t, y.Cumulative.Equal(cumulative), "cumulative is a running sum")

		expected := y.CompensableEconomy.Sub(y.NonCompensableResidual).Sub(y.Maintenance).Sub(y.InverterReplacement).Sub(y.Investment)
		assert.True(t, y.CashFlow.Equal(expected))

		if y.Year == a.InverterReplacementYear {
			assert.Equal(t, "1500.00", y.InverterReplacement.StringFixed(2))
		} else {
			assert.True(t, y.InverterReplacement.IsZero())
		}
		assert.Equal(t, "75.00", y.Maintenance.StringFixed(2))
	}
	assert.True(t, years[0].NonCompensableFraction.Equal(decimal.RequireFromString("0.45")))
	assert.True(t, years[24].NonCompensableFraction.Equal(decimal.NewFromInt(1)))
}

func TestCashFlowProjector_Discounting(t *testing.T) {
	a := flatAssumptions(2)
	a.DiscountRate = decimal.RequireFromString("0.1")
	p := NewCashFlowProjector(a)
	years, err := p.Project(ProjectionInput{
		Tariff:         simpleTariff(),
		Transition:     halfTable(),
		ReferenceYear:  2025,
		ConsumptionKwh: decimal.NewFromInt(100),
		ProductionKwh:  decimal.NewFromInt(1200),
		Investment:     decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	// -160 / 1.1 and 840 / 1.21
	assert.Equal(t, "-145.45", years[0].Discounted.StringFixed(2))
	assert.Equal(t, "694.21", years[1].Discounted.StringFixed(2))
}

func TestCashFlowProjector_Deterministic(t *testing.T) {
	p := NewCashFlowProjector(domain.DefaultAssumptions().Financial)
	in := ProjectionInput{
		Tariff:         cemigTariff(),
		Transition:     lawTable(),
		ReferenceYear:  2026,
		ConsumptionKwh: decimal.NewFromInt(450),
		ProductionKwh:  decimal.NewFromInt(5800),
		Investment:     decimal.NewFromInt(21000),
	}
	a, err := p.Project(in)
	require.NoError(t, err)
	b, err := p.Project(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCashFlowProjector_InvalidInput(t *testing.T) {
	base := ProjectionInput{
		Tariff:         simpleTariff(),
		Transition:     halfTable(),
		ConsumptionKwh: decimal.NewFromInt(100),
		ProductionKwh:  decimal.NewFromInt(1200),
		Investment:     decimal.NewFromInt(1000),
	}
	tests := []struct {
		name   string
		mutate func(*ProjectionInput, *domain.FinancialAssumptions)
	}{
		{"zero years", func(_ *ProjectionInput, a *domain.FinancialAssumptions) { a.ProjectionYears = 0 }},
		{"zero consumption", func(in *ProjectionInput, _ *domain.FinancialAssumptions) { in.ConsumptionKwh = decimal.Zero }},
		{"zero production", func(in *ProjectionInput, _ *domain.FinancialAssumptions) { in.ProductionKwh = decimal.Zero }},
		{"negative production", func(in *ProjectionInput, _ *domain.FinancialAssumptions) { in.ProductionKwh = decimal.NewFromInt(-1) }},
		{"negative investment", func(in *ProjectionInput, _ *domain.FinancialAssumptions) { in.Investment = decimal.NewFromInt(-1) }},
		{"full degradation", func(_ *ProjectionInput, a *domain.FinancialAssumptions) { a.DegradationRate = decimal.NewFromInt(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			a := flatAssumptions(5)
			tt.mutate(&in, &a)
			_, err := NewCashFlowProjector(a).Project(in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}
