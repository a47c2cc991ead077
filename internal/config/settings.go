package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Settings are the engine assumptions plus the HTTP server options
type Settings struct {
	domain.Assumptions `yaml:",inline"`
	Server             ServerSettings `yaml:"server"`
}

// ServerSettings configure the serve command
type ServerSettings struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultSettings returns the documented engine defaults
func DefaultSettings() Settings {
	return Settings{
		Assumptions: domain.DefaultAssumptions(),
		Server: ServerSettings{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadSettings overlays the YAML file at path on DefaultSettings. Keys missing
// from the file keep their defaults; a list such as permit_bands is replaced
// as a whole. Relative data file paths are resolved against the file's directory.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&s.Data.IrradianceFile, &s.Data.TariffFile, &s.Data.TransitionFile, &s.Data.CatalogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	if err := ValidateSettings(s); err != nil {
		return s, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}

// ValidateSettings validates the assumption ranges
func ValidateSettings(s Settings) error {
	if err := validateSizing(s.Sizing); err != nil {
		return fmt.Errorf("sizing: %w", err)
	}
	if err := validateCost(s.Cost); err != nil {
		return fmt.Errorf("cost: %w", err)
	}
	if err := validateFinancial(s.Financial); err != nil {
		return fmt.Errorf("financial: %w", err)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server: port must be between 0 and 65535")
	}
	return nil
}

func validateSizing(a domain.SizingAssumptions) error {
	if !a.SystemEfficiency.IsPositive() || a.SystemEfficiency.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("system efficiency must be in (0, 1]")
	}
	if !a.CorrectionFactor.IsPositive() {
		return fmt.Errorf("correction factor must be positive")
	}
	if !a.DaysPerMonth.IsPositive() {
		return fmt.Errorf("days per month must be positive")
	}
	if a.PanelWattage <= 0 {
		return fmt.Errorf("panel wattage must be positive")
	}
	if !a.PanelAreaM2.IsPositive() {
		return fmt.Errorf("panel area must be positive")
	}
	if a.MinimumKwp.IsNegative() {
		return fmt.Errorf("minimum kWp cannot be negative")
	}
	return nil
}

func validateCost(a domain.CostAssumptions) error {
	for name, v := range map[string]decimal.Decimal{
		"install rate per panel":   a.InstallRatePerPanel,
		"safety margin percent":    a.SafetyMarginPercent,
		"grounding rate per panel": a.GroundingRatePerPanel,
		"transport percent":        a.TransportPercent,
		"general expenses percent": a.GeneralExpensesPercent,
		"signage fee":              a.SignageFee,
		"margin base percent":      a.MarginBasePercent,
		"commission percent":       a.CommissionPercent,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if a.MarginBasePercent.Add(a.CommissionPercent).GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return fmt.Errorf("margin plus commission must stay below 100%%")
	}

	var previous *decimal.Decimal
	for i, band := range a.PermitBands {
		if band.Fee.IsNegative() {
			return fmt.Errorf("permit band %d: fee cannot be negative", i)
		}
		if band.MaxKwp == nil {
			if i != len(a.PermitBands)-1 {
				return fmt.Errorf("permit band %d: only the last band may be open-ended", i)
			}
			continue
		}
		if previous != nil && !band.MaxKwp.GreaterThan(*previous) {
			return fmt.Errorf("permit band %d: max_kwp must increase", i)
		}
		previous = band.MaxKwp
	}
	return nil
}

func validateFinancial(a domain.FinancialAssumptions) error {
	if a.ProjectionYears <= 0 || a.ProjectionYears > 50 {
		return fmt.Errorf("projection years must be between 1 and 50")
	}
	if a.TariffInflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("tariff inflation rate cannot be less than -10%%")
	}
	if a.DegradationRate.IsNegative() || a.DegradationRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("degradation rate must be in [0, 1)")
	}
	if a.DiscountRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("discount rate must be greater than -100%%")
	}
	if a.MaintenanceRatePercent.IsNegative() {
		return fmt.Errorf("maintenance rate cannot be negative")
	}
	if a.InverterReplacementYear < 0 {
		return fmt.Errorf("inverter replacement year cannot be negative")
	}
	if a.InverterReplacementCostFraction.IsNegative() {
		return fmt.Errorf("inverter replacement cost fraction cannot be negative")
	}
	return nil
}
