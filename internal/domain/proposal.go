package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalInput is everything a salesperson supplies to build a proposal
type ProposalInput struct {
	Name        string             `yaml:"name,omitempty" json:"name,omitempty"`
	Consumption ConsumptionProfile `yaml:"consumption" json:"consumption"`

	Location       string `yaml:"location" json:"location"`
	Distributor    string `yaml:"distributor" json:"distributor"`
	ConsumerClass  string `yaml:"consumer_class,omitempty" json:"consumerClass,omitempty"`
	SurchargeLevel string `yaml:"surcharge_level,omitempty" json:"surchargeLevel,omitempty"`
	ReferenceYear  int    `yaml:"reference_year,omitempty" json:"referenceYear,omitempty"`

	// Pre-selected catalog kit. When SystemKwp is set the sizing result is
	// replaced by the kit's power and panel count.
	SystemKwp     *decimal.Decimal `yaml:"system_kwp,omitempty" json:"systemKwp,omitempty"`
	PanelCount    int              `yaml:"panel_count,omitempty" json:"panelCount,omitempty"`
	MinimumKwp    *decimal.Decimal `yaml:"minimum_kwp,omitempty" json:"minimumKwp,omitempty"`
	EquipmentCost decimal.Decimal  `yaml:"equipment_cost" json:"equipmentCost"`

	MarginPercent     *decimal.Decimal `yaml:"margin_percent,omitempty" json:"marginPercent,omitempty"`
	CommissionPercent *decimal.Decimal `yaml:"commission_percent,omitempty" json:"commissionPercent,omitempty"`

	// DisableFallback turns documented defaults into UnresolvedLocation /
	// UnresolvedDistributor errors.
	DisableFallback bool `yaml:"disable_fallback,omitempty" json:"disableFallback,omitempty"`
}

// Metrics are the headline numbers shown on the proposal cover
type Metrics struct {
	MonthlySavings decimal.Decimal `json:"monthlySavings"`
	AnnualSavings  decimal.Decimal `json:"annualSavings"`
	PaybackYears   *int            `json:"paybackYears"`
	PaybackMonths  *int            `json:"paybackMonths"`
	NPV            decimal.Decimal `json:"npv"`
	PercentEconomy decimal.Decimal `json:"percentEconomy"`
}

// Proposal is the full engine output consumed by the document renderer
type Proposal struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	Consumption         ConsumptionResolution `json:"consumption"`
	Irradiance          IrradianceProfile     `json:"irradiance"`
	Tariff              TariffComponents      `json:"tariff"`
	Sizing              SystemSizing          `json:"sizing"`
	TariffDecomposition TariffDecomposition   `json:"tariffDecomposition"`
	CostBreakdown       CostBreakdown         `json:"costBreakdown"`
	SalePrice           SalePrice             `json:"salePrice"`
	CashFlow            []CashFlowYear        `json:"cashFlow"`
	Financials          ProjectFinancials     `json:"financials"`
	Metrics             Metrics               `json:"metrics"`
	Substitutions       []Substitution        `json:"substitutions"`
}

// IsEstimated reports whether any documented fallback was substituted.
func (p *Proposal) IsEstimated() bool {
	return len(p.Substitutions) > 0
}
