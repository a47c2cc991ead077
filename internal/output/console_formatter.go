package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvgo/internal/domain"
)

// ConsoleFormatter renders a short plain-text summary of the proposal
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(p *domain.Proposal) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PV PROPOSAL SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 40))
	if p.Name != "" {
		fmt.Fprintf(&buf, "Customer: %s\n", p.Name)
	}
	fmt.Fprintf(&buf, "System: %s kWp, %d panels\n", p.Sizing.Kwp.StringFixed(2), p.Sizing.PanelCount)
	fmt.Fprintf(&buf, "Price: %s\n", FormatCurrency(p.SalePrice.Price))
	fmt.Fprintf(&buf, "Monthly savings: %s\n", FormatCurrency(p.Metrics.MonthlySavings))
	fmt.Fprintf(&buf, "Bill reduction: %s\n", FormatPercentage(p.Metrics.PercentEconomy))
	fmt.Fprintf(&buf, "Payback: %s\n", FormatPayback(p.Financials.Payback))
	fmt.Fprintf(&buf, "NPV: %s\n", FormatCurrency(p.Metrics.NPV))
	if p.IsEstimated() {
		fields := make([]string, len(p.Substitutions))
		for i, s := range p.Substitutions {
			fields[i] = s.Field
		}
		fmt.Fprintf(&buf, "Estimated: %s\n", strings.Join(fields, ", "))
	}
	return buf.Bytes(), nil
}
