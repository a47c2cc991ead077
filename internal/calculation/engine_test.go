package calculation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) *ProposalEngine {
	t.Helper()
	engine, err := NewDefaultProposalEngine()
	require.NoError(t, err)
	engine.Now = fixedClock
	return engine
}

func baseInput() domain.ProposalInput {
	return domain.ProposalInput{
		Name:          "Residência Silva",
		Consumption:   domain.ConsumptionProfile{AverageKwh: decimalPtr(decimal.NewFromInt(300))},
		Location:      "Belo Horizonte",
		Distributor:   "CEMIG",
		ReferenceYear: 2025,
		EquipmentCost: decimal.NewFromInt(9000),
	}
}

func TestNewDefaultProposalEngine(t *testing.T) {
	engine, err := NewDefaultProposalEngine()
	require.NoError(t, err)

	assert.NotNil(t, engine.Irradiance)
	assert.NotNil(t, engine.Decomposer)
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestProposalEngine_SetLogger(t *testing.T) {
	engine := newTestEngine(t)

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestProposalEngine_Calculate(t *testing.T) {
	engine := newTestEngine(t)

	p, err := engine.Calculate(baseInput())
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Residência Silva", p.Name)
	assert.Equal(t, fixedClock(), p.CreatedAt)
	assert.Empty(t, p.Substitutions)
	assert.False(t, p.IsEstimated())

	assert.Equal(t, StrategyAverageKwh, p.Consumption.Strategy)
	assert.Equal(t, "Belo Horizonte", p.Irradiance.Location)
	assert.Equal(t, "CEMIG", p.Tariff.Distributor)

	// 300 / (4.98 × 0.8 × 30.4) × 1.066
	assert.Equal(t, "2.64", p.Sizing.Kwp.StringFixed(2))
	assert.Equal(t, 5, p.Sizing.PanelCount)
	assert.True(t, p.Sizing.AnnualProductionKwh.IsPositive())

	assert.Equal(t, "79.6", p.TariffDecomposition.PercentEconomy.String())
	assert.True(t, p.CostBreakdown.Total.Equal(p.CostBreakdown.ComponentsSum()))
	expectedPrice := p.CostBreakdown.Total.Div(decimal.RequireFromString("0.7")).Round(2)
	assert.True(t, p.SalePrice.Price.Equal(expectedPrice))

	require.Len(t, p.CashFlow, 25)
	assert.True(t, p.CashFlow[0].Investment.Equal(p.SalePrice.Price))
	assert.Equal(t, 2025, p.CashFlow[0].CalendarYear)

	assert.True(t, p.Financials.Payback.Reached)
	assert.Equal(t, p.Financials.Payback.Years, p.Metrics.PaybackYears)
	assert.Equal(t, p.Financials.Payback.Months, p.Metrics.PaybackMonths)
	assert.True(t, p.Metrics.NPV.Equal(p.Financials.NPV))
	assert.True(t, p.Metrics.AnnualSavings.IsPositive())
}

func TestProposalEngine_DefaultReferenceYear(t *testing.T) {
	engine := newTestEngine(t)
	in := baseInput()
	in.ReferenceYear = 0

	p, err := engine.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 2025, p.CashFlow[0].CalendarYear)
	assert.Equal(t, 2025, p.TariffDecomposition.Year)
}

func TestProposalEngine_Fallbacks(t *testing.T) {
	engine := newTestEngine(t)
	logger := &TestLogger{}
	engine.SetLogger(logger)

	in := baseInput()
	in.Location = "Atlantis"
	in.Distributor = "NOPE"

	p, err := engine.Calculate(in)
	require.NoError(t, err)
	assert.True(t, p.IsEstimated())
	require.Len(t, p.Substitutions, 2)
	assert.Equal(t, "distributor", p.Substitutions[0].Field)
	assert.Equal(t, "location", p.Substitutions[1].Field)
	assert.True(t, p.Irradiance.IsEstimated())
	assert.True(t, p.Tariff.IsEstimated())
	assert.True(t, p.TariffDecomposition.Estimated)
	assert.True(t, p.Sizing.DailyIrradiance.Equal(domain.DefaultDailyIrradiance))

	warnings := 0
	for _, m := range logger.messages {
		if strings.HasPrefix(m, "WARN: ") {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestProposalEngine_StrictMode(t *testing.T) {
	engine := newTestEngine(t)

	in := baseInput()
	in.DisableFallback = true
	in.Location = "Atlantis"
	_, err := engine.Calculate(in)
	assert.True(t, errors.Is(err, domain.ErrUnresolvedLocation))

	in = baseInput()
	in.DisableFallback = true
	in.Distributor = "NOPE"
	_, err = engine.Calculate(in)
	assert.True(t, errors.Is(err, domain.ErrUnresolvedDistributor))

	in = baseInput()
	in.DisableFallback = true
	in.Location = ""
	_, err = engine.Calculate(in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProposalEngine_InvalidInput(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name   string
		mutate func(*domain.ProposalInput)
		target error
	}{
		{"no consumption", func(in *domain.ProposalInput) { in.Consumption = domain.ConsumptionProfile{} }, domain.ErrInvalidInput},
		{"zero consumption", func(in *domain.ProposalInput) { in.Consumption.AverageKwh = decimalPtr(decimal.Zero) }, domain.ErrInvalidInput},
		{"negative consumption", func(in *domain.ProposalInput) { in.Consumption.AverageKwh = decimalPtr(decimal.NewFromInt(-1)) }, domain.ErrInvalidInput},
		{"short series", func(in *domain.ProposalInput) { in.Consumption.MonthlyKwh = []decimal.Decimal{decimal.NewFromInt(1)} }, domain.ErrInvalidInput},
		{"no equipment cost", func(in *domain.ProposalInput) { in.EquipmentCost = decimal.Zero }, domain.ErrInvalidInput},
		{"bad class", func(in *domain.ProposalInput) { in.ConsumerClass = "spaceship" }, domain.ErrInvalidInput},
		{"zero kit power", func(in *domain.ProposalInput) { in.SystemKwp = decimalPtr(decimal.Zero) }, domain.ErrInvalidInput},
		{"margin at 100", func(in *domain.ProposalInput) {
			in.MarginPercent = decimalPtr(decimal.NewFromInt(95))
			in.CommissionPercent = decimalPtr(decimal.NewFromInt(5))
		}, domain.ErrInvalidMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)
			p, err := engine.Calculate(in)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestProposalEngine_CurrencyConsumption(t *testing.T) {
	engine := newTestEngine(t)
	in := baseInput()
	in.Consumption = domain.ConsumptionProfile{AverageCurrency: decimalPtr(decimal.NewFromInt(250))}

	p, err := engine.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, StrategyAverageCurrency, p.Consumption.Strategy)
	expected := decimal.NewFromInt(250).Div(p.Tariff.TotalRateWithTaxes(domain.SurchargeNone))
	assert.True(t, p.Consumption.Kwh.Equal(expected))
}

func TestProposalEngine_PreselectedKit(t *testing.T) {
	engine := newTestEngine(t)
	in := baseInput()
	in.SystemKwp = decimalPtr(decimal.RequireFromString("3.3"))
	in.PanelCount = 6

	p, err := engine.Calculate(in)
	require.NoError(t, err)
	assert.True(t, p.Sizing.FromKit)
	assert.True(t, p.Sizing.Kwp.Equal(decimal.RequireFromString("3.3")))
	assert.Equal(t, 6, p.Sizing.PanelCount)
	assert.Equal(t, "2.64", p.Sizing.RequiredKwp.StringFixed(2))
}

func TestProposalEngine_MinimumKwp(t *testing.T) {
	engine := newTestEngine(t)
	in := baseInput()
	in.MinimumKwp = decimalPtr(decimal.NewFromInt(4))

	p, err := engine.Calculate(in)
	require.NoError(t, err)
	assert.True(t, p.Sizing.ClampedToMinimum)
	assert.True(t, p.Sizing.Kwp.Equal(decimal.NewFromInt(4)))

	in.MinimumKwp = decimalPtr(decimal.NewFromInt(1))
	p, err = engine.Calculate(in)
	require.NoError(t, err)
	assert.False(t, p.Sizing.ClampedToMinimum)
}

func TestProposalEngine_RepeatableRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	a, err := engine.Calculate(baseInput())
	require.NoError(t, err)
	b, err := engine.Calculate(baseInput())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.SalePrice.Price.Equal(b.SalePrice.Price))
	assert.Equal(t, a.Sizing, b.Sizing)
	assert.Equal(t, a.CashFlow, b.CashFlow)
}

func TestProposalEngine_InjectedSources(t *testing.T) {
	irr := fakeIrradiance{"Testville": flatIrradiance("4.5")}
	engine := NewProposalEngine(irr, testTariffs(), lawTable(), domain.DefaultAssumptions())
	engine.Now = fixedClock

	in := baseInput()
	in.Location = "Testville"
	p, err := engine.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, "2.92", p.Sizing.Kwp.StringFixed(2))
	assert.Empty(t, p.Substitutions)
}

func TestProposalEngine_UnusableIrradianceProfile(t *testing.T) {
	dark := flatIrradiance("4.5")
	dark.Location = "Darkville"
	dark.Monthly = make([]decimal.Decimal, 12)
	for i := range dark.Monthly {
		dark.Monthly[i] = decimal.Zero
	}
	engine := NewProposalEngine(fakeIrradiance{"Darkville": dark}, testTariffs(), lawTable(), domain.DefaultAssumptions())
	engine.Now = fixedClock

	in := baseInput()
	in.Location = "Darkville"

	t.Run("falls back to the default profile", func(t *testing.T) {
		p, err := engine.Calculate(in)
		require.NoError(t, err)

		require.Len(t, p.Substitutions, 1)
		assert.Equal(t, "location", p.Substitutions[0].Field)
		assert.Contains(t, p.Substitutions[0].Reason, "unusable")
		for _, y := range p.CashFlow {
			assert.True(t, y.ProductionKwh.IsPositive(), "year %d production %s", y.Year, y.ProductionKwh)
		}
	})

	t.Run("strict", func(t *testing.T) {
		strict := in
		strict.DisableFallback = true
		_, err := engine.Calculate(strict)
		assert.ErrorIs(t, err, domain.ErrUnresolvedLocation)
	})
}

type fakeIrradiance map[string]domain.IrradianceProfile

func (f fakeIrradiance) Lookup(name string) (domain.IrradianceProfile, error) {
	p, ok := f[name]
	if !ok {
		return domain.IrradianceProfile{}, &domain.CalculationError{Kind: domain.KindUnresolvedLocation, Field: "location"}
	}
	return p, nil
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...any) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...any) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...any) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...any) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
