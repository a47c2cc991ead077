package domain

import "github.com/shopspring/decimal"

// Assumptions contains every caller-configurable constant of the engine.
// It is loaded from settings.yaml and overlaid on DefaultAssumptions.
type Assumptions struct {
	Sizing    SizingAssumptions    `yaml:"sizing" json:"sizing"`
	Cost      CostAssumptions      `yaml:"cost" json:"cost"`
	Financial FinancialAssumptions `yaml:"financial" json:"financial"`
	Data      DataSources          `yaml:"data" json:"data"`
}

// SizingAssumptions drive the power sizing formula
type SizingAssumptions struct {
	SystemEfficiency decimal.Decimal `yaml:"system_efficiency" json:"systemEfficiency"`
	CorrectionFactor decimal.Decimal `yaml:"correction_factor" json:"correctionFactor"`
	DaysPerMonth     decimal.Decimal `yaml:"days_per_month" json:"daysPerMonth"`
	PanelWattage     int             `yaml:"panel_wattage" json:"panelWattage"`
	PanelAreaM2      decimal.Decimal `yaml:"panel_area_m2" json:"panelAreaM2"`
	MinimumKwp       decimal.Decimal `yaml:"minimum_kwp" json:"minimumKwp"`
}

// CostAssumptions drive the cost composition and pricing
type CostAssumptions struct {
	InstallRatePerPanel    decimal.Decimal `yaml:"install_rate_per_panel" json:"installRatePerPanel"`
	SafetyMarginPercent    decimal.Decimal `yaml:"safety_margin_percent" json:"safetyMarginPercent"`
	GroundingRatePerPanel  decimal.Decimal `yaml:"grounding_rate_per_panel" json:"groundingRatePerPanel"`
	TransportPercent       decimal.Decimal `yaml:"transport_percent" json:"transportPercent"`
	GeneralExpensesPercent decimal.Decimal `yaml:"general_expenses_percent" json:"generalExpensesPercent"`
	SignageFee             decimal.Decimal `yaml:"signage_fee" json:"signageFee"`
	PermitBands            []PermitBand    `yaml:"permit_bands" json:"permitBands"`
	MarginBasePercent      decimal.Decimal `yaml:"margin_base_percent" json:"marginBasePercent"`
	CommissionPercent      decimal.Decimal `yaml:"commission_percent" json:"commissionPercent"`
}

// FinancialAssumptions drive the cash-flow projection
type FinancialAssumptions struct {
	ProjectionYears                 int             `yaml:"projection_years" json:"projectionYears"`
	TariffInflationRate             decimal.Decimal `yaml:"tariff_inflation_rate" json:"tariffInflationRate"`
	ConsumptionGrowthRate           decimal.Decimal `yaml:"consumption_growth_rate" json:"consumptionGrowthRate"`
	DegradationRate                 decimal.Decimal `yaml:"degradation_rate" json:"degradationRate"`
	DiscountRate                    decimal.Decimal `yaml:"discount_rate" json:"discountRate"`
	MaintenanceRatePercent          decimal.Decimal `yaml:"maintenance_rate_percent" json:"maintenanceRatePercent"`
	InverterReplacementYear         int             `yaml:"inverter_replacement_year" json:"inverterReplacementYear"`
	InverterReplacementCostFraction decimal.Decimal `yaml:"inverter_replacement_cost_fraction" json:"inverterReplacementCostFraction"`
}

// DataSources points at optional data files. Empty paths use the embedded defaults.
type DataSources struct {
	IrradianceFile string `yaml:"irradiance_file,omitempty" json:"irradianceFile,omitempty"`
	TariffFile     string `yaml:"tariff_file,omitempty" json:"tariffFile,omitempty"`
	TransitionFile string `yaml:"transition_file,omitempty" json:"transitionFile,omitempty"`
	CatalogFile    string `yaml:"catalog_file,omitempty" json:"catalogFile,omitempty"`
}

// DefaultAssumptions returns the documented engine defaults
func DefaultAssumptions() Assumptions {
	band10 := decimal.NewFromInt(10)
	band75 := decimal.NewFromInt(75)
	return Assumptions{
		Sizing: SizingAssumptions{
			SystemEfficiency: decimal.NewFromFloat(0.80),
			CorrectionFactor: decimal.NewFromFloat(1.066),
			DaysPerMonth:     decimal.NewFromFloat(30.4),
			PanelWattage:     550,
			PanelAreaM2:      decimal.NewFromFloat(2.58),
			MinimumKwp:       decimal.Zero,
		},
		Cost: CostAssumptions{
			InstallRatePerPanel:    decimal.NewFromInt(180),
			SafetyMarginPercent:    decimal.NewFromInt(10),
			GroundingRatePerPanel:  decimal.NewFromInt(100),
			TransportPercent:       decimal.NewFromInt(5),
			GeneralExpensesPercent: decimal.NewFromInt(10),
			SignageFee:             decimal.NewFromInt(150),
			PermitBands: []PermitBand{
				{MaxKwp: &band10, Fee: decimal.NewFromInt(500)},
				{MaxKwp: &band75, Fee: decimal.NewFromInt(1500)},
				{Fee: decimal.NewFromInt(3000)},
			},
			MarginBasePercent: decimal.NewFromInt(25),
			CommissionPercent: decimal.NewFromInt(5),
		},
		Financial: FinancialAssumptions{
			ProjectionYears:                 25,
			TariffInflationRate:             decimal.NewFromFloat(0.05),
			ConsumptionGrowthRate:           decimal.Zero,
			DegradationRate:                 decimal.NewFromFloat(0.005),
			DiscountRate:                    decimal.NewFromFloat(0.08),
			MaintenanceRatePercent:          decimal.NewFromFloat(0.5),
			InverterReplacementYear:         12,
			InverterReplacementCostFraction: decimal.NewFromFloat(0.10),
		},
	}
}
