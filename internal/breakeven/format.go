package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN MARGIN RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Optimization metadata
	if result.Request.Input.Name != "" {
		sb.WriteString(fmt.Sprintf("Proposal:            %s\n", result.Request.Input.Name))
	}
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Request.Goal))
	sb.WriteString(fmt.Sprintf("Target:              %s\n", tf.formatTarget(result.Request)))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("OPTIMAL MARGIN\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalMargin != nil {
		sb.WriteString(fmt.Sprintf("Base Margin:         %s%%\n", result.OptimalMargin.StringFixed(2)))
	} else {
		sb.WriteString("Base Margin:         not reachable\n")
	}
	sb.WriteString("\n")

	// Results at optimal margin
	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Sale Price:          R$%s\n", tf.formatCurrency(result.Price)))
	sb.WriteString(fmt.Sprintf("Price per kWp:       R$%s\n", tf.formatCurrency(result.PricePerKwp)))
	sb.WriteString(fmt.Sprintf("Payback:             %s\n", result.PaybackLabel()))
	sb.WriteString(fmt.Sprintf("NPV:                 R$%s\n", tf.formatCurrency(result.NPV)))
	sb.WriteString("\n")

	sb.WriteString("COMPARISON TO QUOTED MARGIN\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Quoted Margin:       %s%%\n", result.BaseMargin.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Quoted Price:        R$%s\n", tf.formatCurrency(result.BasePrice)))
	if !result.PriceDiffFromBase.IsZero() {
		sb.WriteString(fmt.Sprintf("Price Change:        %sR$%s\n",
			tf.deltaSymbol(result.PriceDiffFromBase), tf.formatCurrency(result.PriceDiffFromBase.Abs())))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatLadder formats the margin ladder as one row per payback horizon
func (tf *TableFormatter) FormatLadder(ladder *MarginLadder) string {
	var sb strings.Builder

	sb.WriteString("MARGIN LADDER\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-16s %12s %15s %12s %15s\n",
		"Payback Within", "Margin", "Price", "Payback", "NPV"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range ladder.Results {
		margin := "-"
		if res.OptimalMargin != nil {
			margin = res.OptimalMargin.StringFixed(2) + "%"
		}
		sb.WriteString(fmt.Sprintf("%-16s %12s %15s %12s %15s\n",
			tf.formatTarget(res.Request),
			margin,
			"R$"+tf.formatShort(res.Price),
			res.PaybackLabel(),
			"R$"+tf.formatShort(res.NPV)))
	}
	sb.WriteString("\n")

	// Recommendations
	if len(ladder.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range ladder.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatLadder formats a margin ladder as JSON
func (jf *JSONFormatter) FormatLadder(ladder *MarginLadder) (string, error) {
	return jf.marshal(ladder)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatTarget(req OptimizationRequest) string {
	switch req.Goal {
	case GoalPayback:
		if req.Constraints.TargetPaybackYears != nil {
			return req.Constraints.TargetPaybackYears.String() + " years"
		}
	case GoalMinimumNPV:
		if req.Constraints.MinimumNPV != nil {
			return "NPV ≥ R$" + tf.formatCurrency(*req.Constraints.MinimumNPV)
		}
	}
	return "-"
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}
