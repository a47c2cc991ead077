package domain

import "github.com/shopspring/decimal"

// PermitBand is one step of the permitting/interconnection fee table.
// A nil MaxKwp makes the band open-ended.
type PermitBand struct {
	MaxKwp *decimal.Decimal `yaml:"max_kwp,omitempty" json:"maxKwp,omitempty"`
	Fee    decimal.Decimal  `yaml:"fee" json:"fee"`
}

// CostBreakdown is the operational cost of an installation. Total is the
// exact sum of the other (currency-rounded) components.
type CostBreakdown struct {
	Equipment       decimal.Decimal `json:"equipment"`
	Transport       decimal.Decimal `json:"transport"`
	Installation    decimal.Decimal `json:"installation"`
	Grounding       decimal.Decimal `json:"grounding"`
	Permitting      decimal.Decimal `json:"permitting"`
	Signage         decimal.Decimal `json:"signage"`
	GeneralExpenses decimal.Decimal `json:"generalExpenses"`
	Total           decimal.Decimal `json:"total"`
}

// ComponentsSum adds every named component except Total.
func (c CostBreakdown) ComponentsSum() decimal.Decimal {
	return c.Equipment.
		Add(c.Transport).
		Add(c.Installation).
		Add(c.Grounding).
		Add(c.Permitting).
		Add(c.Signage).
		Add(c.GeneralExpenses)
}

// SalePrice is the commercial price derived from the cost and target margin
type SalePrice struct {
	Cost              decimal.Decimal `json:"cost"`
	MarginPercent     decimal.Decimal `json:"marginPercent"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	MarginAmount      decimal.Decimal `json:"marginAmount"`
	CommissionAmount  decimal.Decimal `json:"commissionAmount"`
	Price             decimal.Decimal `json:"price"`
	PricePerKwp       decimal.Decimal `json:"pricePerKwp"`
}
