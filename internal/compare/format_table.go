package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing kits
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("KIT COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	if compSet.ProposalName != "" {
		sb.WriteString(fmt.Sprintf("Proposal: %s\n", compSet.ProposalName))
	}
	if compSet.InputPath != "" {
		sb.WriteString(fmt.Sprintf("Input: %s\n", compSet.InputPath))
	}
	sb.WriteString(fmt.Sprintf("Required power: %s kWp\n", compSet.RequiredKwp.StringFixed(2)))
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 11

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Kit",
		numWidth, "kWp",
		numWidth, "Price",
		numWidth, "Savings/yr",
		numWidth, "NPV",
		numWidth, "Payback"))
	sb.WriteString(strings.Repeat("-", 88) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 88) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.KitName))
			sb.WriteString(fmt.Sprintf("  Price:    %sR$%s\n",
				tf.deltaSymbol(alt.PriceDiffFromBase), tf.formatDecimal(alt.PriceDiffFromBase.Abs())))
			sb.WriteString(fmt.Sprintf("  NPV:      %sR$%s\n",
				tf.deltaSymbol(alt.NPVDiffFromBase), tf.formatDecimal(alt.NPVDiffFromBase.Abs())))
			if alt.PaybackMonthsDiff != nil && *alt.PaybackMonthsDiff != 0 {
				symbol := "+"
				if *alt.PaybackMonthsDiff < 0 {
					symbol = ""
				}
				sb.WriteString(fmt.Sprintf("  Payback:  %s%d months\n", symbol, *alt.PaybackMonthsDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single kit row
func (tf *TableFormatter) formatRow(result *KitResult, nameWidth, numWidth int, isBase bool) string {
	name := result.KitName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.Kwp.StringFixed(2),
		numWidth, "R$"+tf.formatDecimal(result.Price),
		numWidth, "R$"+tf.formatDecimal(result.AnnualSavings),
		numWidth, "R$"+tf.formatDecimal(result.NPV),
		numWidth, result.PaybackLabel())
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary for each kit
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseKitID))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		npvChange := "="
		if alt.NPVDiffFromBase.IsPositive() {
			npvChange = fmt.Sprintf("+R$%s", tf.formatDecimal(alt.NPVDiffFromBase))
		} else if alt.NPVDiffFromBase.IsNegative() {
			npvChange = fmt.Sprintf("-R$%s", tf.formatDecimal(alt.NPVDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.KitID, npvChange))
	}

	return sb.String()
}
