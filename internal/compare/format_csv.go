package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Kit",
		"Type",
		"kWp",
		"Panels",
		"Equipment",
		"Price",
		"Annual Savings",
		"NPV",
		"Payback Months",
		"Coverage %",
		"Price Diff from Base",
		"NPV Diff from Base",
		"Payback Months Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a kit result as a CSV row. Unreached payback is an empty cell.
func (cf *CSVFormatter) formatRow(result *KitResult, kitType string) []string {
	months := ""
	if m, ok := result.totalMonths(); ok {
		months = strconv.Itoa(m)
	}
	monthsDiff := ""
	if result.PaybackMonthsDiff != nil {
		monthsDiff = strconv.Itoa(*result.PaybackMonthsDiff)
	}
	return []string{
		result.KitID,
		kitType,
		result.Kwp.StringFixed(2),
		strconv.Itoa(result.PanelCount),
		result.EquipmentCost.StringFixed(2),
		result.Price.StringFixed(2),
		result.AnnualSavings.StringFixed(2),
		result.NPV.StringFixed(2),
		months,
		result.CoveragePercent.StringFixed(1),
		result.PriceDiffFromBase.StringFixed(2),
		result.NPVDiffFromBase.StringFixed(2),
		monthsDiff,
	}
}
