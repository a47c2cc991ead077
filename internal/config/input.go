package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of proposal input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a proposal input from a YAML or JSON file. Files ending
// in .json use the camelCase JSON field names; anything else is read as YAML.
func (ip *InputParser) LoadFromFile(filename string) (*domain.ProposalInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		format = "json"
	}
	in, err := ip.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return in, nil
}

// Parse decodes and validates a proposal input in the given format ("yaml" or "json")
func (ip *InputParser) Parse(data []byte, format string) (*domain.ProposalInput, error) {
	var in domain.ProposalInput
	switch format {
	case "json":
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}

	if err := ip.ValidateInput(&in); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &in, nil
}

// ValidateInput validates a proposal input before it reaches the engine
func (ip *InputParser) ValidateInput(in *domain.ProposalInput) error {
	if err := ip.validateConsumption(&in.Consumption); err != nil {
		return err
	}
	if in.ReferenceYear != 0 && (in.ReferenceYear < 2000 || in.ReferenceYear > 2100) {
		return domain.NewInvalidInput("referenceYear", "reference year must be between 2000 and 2100, got %d", in.ReferenceYear)
	}
	if err := ip.validatePricing(in); err != nil {
		return err
	}
	return calculation.ValidateInput(*in)
}

// validateConsumption requires at least one consumption source
func (ip *InputParser) validateConsumption(c *domain.ConsumptionProfile) error {
	if c.AverageKwh == nil && c.AverageCurrency == nil && len(c.MonthlyKwh) == 0 {
		return domain.NewInvalidInput("consumption", "one of monthly_kwh, average_kwh or average_currency is required")
	}
	return nil
}

// validatePricing checks the margin and commission overrides
func (ip *InputParser) validatePricing(in *domain.ProposalInput) error {
	hundred := decimal.NewFromInt(100)
	if in.MarginPercent != nil && (in.MarginPercent.IsNegative() || in.MarginPercent.GreaterThanOrEqual(hundred)) {
		return domain.NewInvalidMargin("margin percent must be in [0, 100), got %s", in.MarginPercent)
	}
	if in.CommissionPercent != nil && (in.CommissionPercent.IsNegative() || in.CommissionPercent.GreaterThanOrEqual(hundred)) {
		return domain.NewInvalidMargin("commission percent must be in [0, 100), got %s", in.CommissionPercent)
	}
	if in.MarginPercent != nil && in.CommissionPercent != nil &&
		in.MarginPercent.Add(*in.CommissionPercent).GreaterThanOrEqual(hundred) {
		return domain.NewInvalidMargin("margin plus commission must stay below 100%%")
	}
	return nil
}
