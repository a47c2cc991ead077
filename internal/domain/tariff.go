package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ConsumerClass is the regulatory consumer class of a utility account
type ConsumerClass string

const (
	ClassResidential ConsumerClass = "residential"
	ClassCommercial  ConsumerClass = "commercial"
	ClassRural       ConsumerClass = "rural"
	ClassIndustrial  ConsumerClass = "industrial"
)

// ParseConsumerClass normalizes a class name; empty means residential.
func ParseConsumerClass(s string) (ConsumerClass, error) {
	switch c := ConsumerClass(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ClassResidential, nil
	case ClassResidential, ClassCommercial, ClassRural, ClassIndustrial:
		return c, nil
	default:
		return "", NewInvalidInput("consumerClass", "unknown consumer class %q", s)
	}
}

// SurchargeLevel is the national seasonal surcharge ("bandeira") level
type SurchargeLevel string

const (
	SurchargeNone     SurchargeLevel = "none"
	SurchargeYellow   SurchargeLevel = "yellow"
	SurchargeRed1     SurchargeLevel = "red1"
	SurchargeRed2     SurchargeLevel = "red2"
	SurchargeScarcity SurchargeLevel = "scarcity"
)

// ParseSurchargeLevel normalizes a surcharge level. Unknown levels, and the
// green flag, map to SurchargeNone.
func ParseSurchargeLevel(s string) SurchargeLevel {
	switch l := SurchargeLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case SurchargeYellow, SurchargeRed1, SurchargeRed2, SurchargeScarcity:
		return l
	default:
		return SurchargeNone
	}
}

// TaxRates holds the three surtaxes applied over the tariff base
type TaxRates struct {
	ICMS   decimal.Decimal `yaml:"icms" json:"icms"`
	PIS    decimal.Decimal `yaml:"pis" json:"pis"`
	COFINS decimal.Decimal `yaml:"cofins" json:"cofins"`
}

// Sum returns ICMS + PIS + COFINS.
func (t TaxRates) Sum() decimal.Decimal {
	return t.ICMS.Add(t.PIS).Add(t.COFINS)
}

// Multiplier returns 1 + Sum().
func (t TaxRates) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(t.Sum())
}

// TariffComponents are the per-kWh rates for a distributor and consumer class
type TariffComponents struct {
	Distributor      string                             `yaml:"distributor" json:"distributor"`
	Name             string                             `yaml:"name,omitempty" json:"name,omitempty"`
	ConsumerClass    ConsumerClass                      `yaml:"consumer_class" json:"consumerClass"`
	EnergyRate       decimal.Decimal                    `yaml:"energy_rate" json:"energyRate"`
	DistributionRate decimal.Decimal                    `yaml:"distribution_rate" json:"distributionRate"`
	Taxes            TaxRates                           `yaml:"taxes" json:"taxes"`
	Surcharges       map[SurchargeLevel]decimal.Decimal `yaml:"surcharges,omitempty" json:"surcharges,omitempty"`
	Source           DataSource                         `yaml:"-" json:"source"`
}

// Validate checks that every rate is non-negative
func (t TariffComponents) Validate() error {
	rates := map[string]decimal.Decimal{
		"energy_rate":       t.EnergyRate,
		"distribution_rate": t.DistributionRate,
		"icms":              t.Taxes.ICMS,
		"pis":               t.Taxes.PIS,
		"cofins":            t.Taxes.COFINS,
	}
	for level, rate := range t.Surcharges {
		rates["surcharge."+string(level)] = rate
	}
	for name, rate := range rates {
		if rate.IsNegative() {
			return fmt.Errorf("tariff %s/%s: %s cannot be negative", t.Distributor, t.ConsumerClass, name)
		}
	}
	return nil
}

// SurchargeRate returns the per-kWh surcharge for level, zero when absent.
func (t TariffComponents) SurchargeRate(level SurchargeLevel) decimal.Decimal {
	if rate, ok := t.Surcharges[level]; ok {
		return rate
	}
	return decimal.Zero
}

// BaseRate is the per-kWh tariff before taxes.
func (t TariffComponents) BaseRate(level SurchargeLevel) decimal.Decimal {
	return t.EnergyRate.Add(t.DistributionRate).Add(t.SurchargeRate(level))
}

// TotalRateWithTaxes is BaseRate × (1 + sum of tax rates).
func (t TariffComponents) TotalRateWithTaxes(level SurchargeLevel) decimal.Decimal {
	return t.BaseRate(level).Mul(t.Taxes.Multiplier())
}

// IsEstimated reports whether the components are the national-average fallback.
func (t TariffComponents) IsEstimated() bool {
	return t.Source == SourceFallback
}

// TariffDecomposition splits a monthly bill into compensable and
// non-compensable pieces for one consumption, distributor and year.
type TariffDecomposition struct {
	Distributor    string          `json:"distributor"`
	ConsumerClass  ConsumerClass   `json:"consumerClass"`
	SurchargeLevel SurchargeLevel  `json:"surchargeLevel"`
	Year           int             `json:"year"`
	ConsumptionKwh decimal.Decimal `json:"consumptionKwh"`

	EnergyCharge               decimal.Decimal `json:"energyCharge"`
	SurchargeCharge            decimal.Decimal `json:"surchargeCharge"`
	DistributionCharge         decimal.Decimal `json:"distributionCharge"`
	CompensableDistribution    decimal.Decimal `json:"compensableDistribution"`
	NonCompensableDistribution decimal.Decimal `json:"nonCompensableDistribution"`
	BaseTotal                  decimal.Decimal `json:"baseTotal"`
	ICMS                       decimal.Decimal `json:"icms"`
	PIS                        decimal.Decimal `json:"pis"`
	COFINS                     decimal.Decimal `json:"cofins"`
	GrandTotal                 decimal.Decimal `json:"grandTotal"`
	CompensableFraction        decimal.Decimal `json:"compensableFraction"`
	NonCompensableFraction     decimal.Decimal `json:"nonCompensableFraction"`
	TaxMultiplier              decimal.Decimal `json:"taxMultiplier"`
	PercentEconomy             decimal.Decimal `json:"percentEconomy"`
	Estimated                  bool            `json:"estimated"`
}

// CompensableTotal is the pre-tax portion of the bill that generation credits can offset.
func (d TariffDecomposition) CompensableTotal() decimal.Decimal {
	return d.EnergyCharge.Add(d.SurchargeCharge).Add(d.CompensableDistribution)
}

// TaxTotal is ICMS + PIS + COFINS.
func (d TariffDecomposition) TaxTotal() decimal.Decimal {
	return d.ICMS.Add(d.PIS).Add(d.COFINS)
}

// NonCompensableWithTaxes is the non-compensable distribution charge grossed up by taxes.
func (d TariffDecomposition) NonCompensableWithTaxes() decimal.Decimal {
	return d.NonCompensableDistribution.Mul(d.TaxMultiplier)
}
