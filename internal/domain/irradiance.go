package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IrradianceUnit identifies how irradiance values are expressed
type IrradianceUnit string

const (
	UnitKwhPerDay  IrradianceUnit = "kWh/m2.day"
	UnitWhPerDay   IrradianceUnit = "Wh/m2.day"
	UnitKwhPerYear IrradianceUnit = "kWh/m2.year"
)

// DataSource tells measured data apart from documented defaults
type DataSource string

const (
	SourceMeasured DataSource = "measured"
	SourceFallback DataSource = "fallback"
)

// DefaultDailyIrradiance is the single documented irradiance default (kWh/m²/day)
// used when a location cannot be resolved.
var DefaultDailyIrradiance = decimal.NewFromFloat(5.0)

var (
	decimalThousand = decimal.NewFromInt(1000)
	daysPerYear     = decimal.NewFromInt(365)
)

// IrradianceProfile holds the solar irradiance for one location
type IrradianceProfile struct {
	Location string            `yaml:"location" json:"location"`
	State    string            `yaml:"state,omitempty" json:"state,omitempty"`
	Annual   decimal.Decimal   `yaml:"annual" json:"annual"`
	Monthly  []decimal.Decimal `yaml:"monthly" json:"monthly"`
	Unit     IrradianceUnit    `yaml:"unit,omitempty" json:"unit"`
	Source   DataSource        `yaml:"-" json:"source"`
}

// Validate checks the profile shape and unit
func (p IrradianceProfile) Validate() error {
	if p.Location == "" {
		return fmt.Errorf("location name is required")
	}
	if !p.Annual.IsPositive() {
		return fmt.Errorf("annual irradiance for %s must be positive", p.Location)
	}
	if len(p.Monthly) != 0 && len(p.Monthly) != 12 {
		return fmt.Errorf("irradiance for %s must have 12 monthly values, got %d", p.Location, len(p.Monthly))
	}
	for i, m := range p.Monthly {
		if !m.IsPositive() {
			return fmt.Errorf("irradiance for %s month %d must be positive", p.Location, i+1)
		}
	}
	switch p.Unit {
	case UnitKwhPerDay, UnitWhPerDay, UnitKwhPerYear, "":
	default:
		return fmt.Errorf("unsupported irradiance unit %q", p.Unit)
	}
	return nil
}

// DailyKwhPerM2 converts the annual figure into kWh/m²/day.
func (p IrradianceProfile) DailyKwhPerM2() decimal.Decimal {
	return p.toDaily(p.Annual)
}

// MonthlyDailyKwhPerM2 converts each monthly value into kWh/m²/day. Profiles
// without monthly data repeat the annual figure.
func (p IrradianceProfile) MonthlyDailyKwhPerM2() []decimal.Decimal {
	out := make([]decimal.Decimal, 12)
	for i := range out {
		if len(p.Monthly) == 12 {
			out[i] = p.toDaily(p.Monthly[i])
		} else {
			out[i] = p.DailyKwhPerM2()
		}
	}
	return out
}

func (p IrradianceProfile) toDaily(v decimal.Decimal) decimal.Decimal {
	switch p.Unit {
	case UnitWhPerDay:
		return v.Div(decimalThousand)
	case UnitKwhPerYear:
		return v.Div(daysPerYear)
	default:
		return v
	}
}

// IsEstimated reports whether the profile is the documented default.
func (p IrradianceProfile) IsEstimated() bool {
	return p.Source == SourceFallback
}

// FallbackIrradiance returns the documented default profile for a location
// that could not be resolved.
func FallbackIrradiance(location string) IrradianceProfile {
	monthly := make([]decimal.Decimal, 12)
	for i := range monthly {
		monthly[i] = DefaultDailyIrradiance
	}
	return IrradianceProfile{
		Location: location,
		Annual:   DefaultDailyIrradiance,
		Monthly:  monthly,
		Unit:     UnitKwhPerDay,
		Source:   SourceFallback,
	}
}
