package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Formatter renders a proposal in one output format
type Formatter interface {
	Name() string
	Format(p *domain.Proposal) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(p *domain.Proposal) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(p *domain.Proposal) ([]byte, error) { return f.F(p) }

// JSONFormatter renders the full proposal as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(p *domain.Proposal) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// YAMLFormatter renders the full proposal as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(p *domain.Proposal) ([]byte, error) {
	return yaml.Marshal(p)
}

var registry = map[string]Formatter{}

var aliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"text":            "console-lite",
	"yml":             "yaml",
}

func register(f Formatter) {
	registry[f.Name()] = f
}

func init() {
	register(ConsoleVerboseFormatter{})
	register(ConsoleFormatter{})
	register(CSVCashFlowFormatter{})
	register(JSONFormatter{})
	register(YAMLFormatter{})
	register(HTMLFormatter{})
}

// GetFormatterByName returns the formatter registered under name or alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	if target, ok := aliases[name]; ok {
		name = target
	}
	return registry[name]
}

// AvailableFormatterNames lists registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted alias names, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders p and writes it to a timestamped file in the working directory
func WriteFormatted(f Formatter, p *domain.Proposal, ext string) (string, error) {
	data, err := f.Format(p)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("pv_proposal_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatCurrency formats a decimal as Brazilian reais, e.g. "R$ 14.328,00"
func FormatCurrency(amount decimal.Decimal) string {
	pr := message.NewPrinter(language.BrazilianPortuguese)
	return "R$ " + pr.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// FormatPercentage formats a decimal percentage with one decimal place
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(1) + "%"
}

// FormatKwh formats an energy amount
func FormatKwh(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " kWh"
}

// FormatPayback renders a payback as "3 years 8 months" or "not reached"
func FormatPayback(pb domain.Payback) string {
	if !pb.Reached || pb.Years == nil || pb.Months == nil {
		return "not reached"
	}
	return fmt.Sprintf("%d years %d months", *pb.Years, *pb.Months)
}
