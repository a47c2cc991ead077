package calculation

import (
	"time"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// PowerSizer derives the PV system size for a consumption profile
type PowerSizer struct {
	Assumptions domain.SizingAssumptions
}

// NewPowerSizer creates a sizer with the given assumptions
func NewPowerSizer(a domain.SizingAssumptions) *PowerSizer {
	return &PowerSizer{Assumptions: a}
}

// RequiredKwp computes
//
//	consumptionWithMargin / (dailyIrradiance × efficiency × daysPerMonth) × correctionFactor
//
// rounded to two decimals and never negative.
func (s *PowerSizer) RequiredKwp(consumptionWithMargin, dailyIrradiance decimal.Decimal) (decimal.Decimal, error) {
	if !consumptionWithMargin.IsPositive() {
		return decimal.Zero, domain.NewInvalidInput("consumption", "consumption must be positive, got %s", consumptionWithMargin)
	}
	if !dailyIrradiance.IsPositive() {
		return decimal.Zero, domain.NewInvalidInput("irradiance", "daily irradiance must be positive, got %s", dailyIrradiance)
	}
	a := s.Assumptions
	if !a.SystemEfficiency.IsPositive() || !a.DaysPerMonth.IsPositive() {
		return decimal.Zero, domain.NewInvalidInput("sizing", "system efficiency and days per month must be positive")
	}
	monthlyYieldPerKwp := dailyIrradiance.Mul(a.SystemEfficiency).Mul(a.DaysPerMonth)
	kwp := consumptionWithMargin.Div(monthlyYieldPerKwp).Mul(a.CorrectionFactor).Round(2)
	return maxDecimal(kwp, decimal.Zero), nil
}

// Size resolves the consumption with margin and derives power, panels, area
// and the monthly production estimate.
func (s *PowerSizer) Size(consumptionKwh decimal.Decimal, margin domain.MarginSpec, rate decimal.Decimal, irr domain.IrradianceProfile) (domain.SystemSizing, error) {
	withMargin := ApplyMargin(consumptionKwh, margin, rate)
	daily := irr.DailyKwhPerM2()
	kwp, err := s.RequiredKwp(withMargin, daily)
	if err != nil {
		return domain.SystemSizing{}, err
	}
	sizing := domain.SystemSizing{
		ConsumptionKwh:           consumptionKwh,
		ConsumptionWithMarginKwh: withMargin,
		DailyIrradiance:          daily,
		RequiredKwp:              kwp,
	}
	s.apply(&sizing, kwp, 0, s.Assumptions.PanelWattage, irr)
	return sizing, nil
}

// ClampToMinimum raises the system to minKwp when it is smaller. It never lowers it.
func (s *PowerSizer) ClampToMinimum(sizing domain.SystemSizing, minKwp decimal.Decimal, irr domain.IrradianceProfile) domain.SystemSizing {
	if !minKwp.GreaterThan(sizing.Kwp) {
		return sizing
	}
	sizing.ClampedToMinimum = true
	s.apply(&sizing, minKwp, 0, sizing.PanelWattage, irr)
	return sizing
}

// ApplyKit replaces power and panel count with those of a pre-selected kit.
// A zero panelCount is derived from the kit power.
func (s *PowerSizer) ApplyKit(sizing domain.SystemSizing, kwp decimal.Decimal, panelCount, panelWattage int, irr domain.IrradianceProfile) domain.SystemSizing {
	if panelWattage <= 0 {
		panelWattage = sizing.PanelWattage
	}
	sizing.FromKit = true
	sizing.ClampedToMinimum = false
	s.apply(&sizing, kwp, panelCount, panelWattage, irr)
	return sizing
}

// PanelCount returns ceil(kWp × 1000 / wattage).
func PanelCount(kwp decimal.Decimal, wattage int) int {
	if wattage <= 0 || !kwp.IsPositive() {
		return 0
	}
	return int(kwp.Mul(thousand).Div(decimal.NewFromInt(int64(wattage))).Ceil().IntPart())
}

// MonthlyProduction estimates kWh per calendar month for kWp at irr.
func (s *PowerSizer) MonthlyProduction(kwp decimal.Decimal, irr domain.IrradianceProfile) []decimal.Decimal {
	daily := irr.MonthlyDailyKwhPerM2()
	out := make([]decimal.Decimal, 12)
	for i := range out {
		days := decimal.NewFromInt(int64(daysIn(time.Month(i + 1))))
		out[i] = kwp.Mul(daily[i]).Mul(s.Assumptions.SystemEfficiency).Mul(days).Round(2)
	}
	return out
}

func (s *PowerSizer) apply(sizing *domain.SystemSizing, kwp decimal.Decimal, panels, wattage int, irr domain.IrradianceProfile) {
	if panels <= 0 {
		panels = PanelCount(kwp, wattage)
	}
	sizing.Kwp = kwp
	sizing.PanelCount = panels
	sizing.PanelWattage = wattage
	sizing.AreaM2 = s.Assumptions.PanelAreaM2.Mul(decimal.NewFromInt(int64(panels))).Round(2)
	sizing.MonthlyProductionKwh = s.MonthlyProduction(kwp, irr)
	total := decimal.Zero
	for _, m := range sizing.MonthlyProductionKwh {
		total = total.Add(m)
	}
	sizing.AnnualProductionKwh = total
}

// daysIn uses a non-leap reference year
func daysIn(m time.Month) int {
	return time.Date(2023, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
