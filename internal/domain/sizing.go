package domain

import "github.com/shopspring/decimal"

// SystemSizing is the derived PV system size for a consumption profile
type SystemSizing struct {
	ConsumptionKwh           decimal.Decimal   `json:"consumptionKwh"`
	ConsumptionWithMarginKwh decimal.Decimal   `json:"consumptionWithMarginKwh"`
	DailyIrradiance          decimal.Decimal   `json:"dailyIrradiance"`
	RequiredKwp              decimal.Decimal   `json:"requiredKwp"`
	Kwp                      decimal.Decimal   `json:"kwp"`
	PanelCount               int               `json:"panelCount"`
	PanelWattage             int               `json:"panelWattage"`
	AreaM2                   decimal.Decimal   `json:"areaM2"`
	MonthlyProductionKwh     []decimal.Decimal `json:"monthlyProductionKwh"`
	AnnualProductionKwh      decimal.Decimal   `json:"annualProductionKwh"`
	ClampedToMinimum         bool              `json:"clampedToMinimum"`
	FromKit                  bool              `json:"fromKit"`
}

// MonthlyAverageProductionKwh returns AnnualProductionKwh / 12.
func (s SystemSizing) MonthlyAverageProductionKwh() decimal.Decimal {
	return s.AnnualProductionKwh.Div(decimal.NewFromInt(12))
}
