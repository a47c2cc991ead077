package domain

import "github.com/shopspring/decimal"

// MarginSpec is an additive safety margin on top of the resolved consumption.
// When several fields are set, Percent wins over Kwh, which wins over Currency.
type MarginSpec struct {
	Percent  *decimal.Decimal `yaml:"percent,omitempty" json:"percent,omitempty"`
	Kwh      *decimal.Decimal `yaml:"kwh,omitempty" json:"kwh,omitempty"`
	Currency *decimal.Decimal `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// IsZero reports whether no margin component is set to a positive value.
func (m MarginSpec) IsZero() bool {
	for _, v := range []*decimal.Decimal{m.Percent, m.Kwh, m.Currency} {
		if v != nil && v.IsPositive() {
			return false
		}
	}
	return true
}

// ConsumptionProfile describes a household's monthly consumption in one of
// three representations.
type ConsumptionProfile struct {
	AverageKwh      *decimal.Decimal  `yaml:"average_kwh,omitempty" json:"averageKwh,omitempty"`
	AverageCurrency *decimal.Decimal  `yaml:"average_currency,omitempty" json:"averageCurrency,omitempty"`
	MonthlyKwh      []decimal.Decimal `yaml:"monthly_kwh,omitempty" json:"monthlyKwh,omitempty"`
	Margin          MarginSpec        `yaml:"margin,omitempty" json:"margin,omitempty"`
}

// ConsumptionResolution is the outcome of the consumption resolution pipeline
type ConsumptionResolution struct {
	Kwh      decimal.Decimal `json:"kwh"`
	Strategy string          `json:"strategy"`
}
