package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparison() *ComparisonSet {
	base := result("gt-2.75-m", 14000, 20000, 4, 0)
	base.Kwp = decimal.RequireFromString("2.75")
	fast := result("gt-3.30-m", 15500, 26500, 3, 8)
	fast.Kwp = decimal.RequireFromString("3.3")
	never := result("gt-11.10-t", 60000, -4000, -1, 0)
	never.Kwp = decimal.RequireFromString("11.1")

	mc := NewMetricsCalculator()
	compSet := &ComparisonSet{
		ProposalName: "Residência Silva",
		RequiredKwp:  decimal.RequireFromString("2.64"),
		BaseKitID:    base.KitID,
		BaseResult:   &base,
		AlternativeResults: []KitResult{
			mc.CalculateComparison(fast, base),
			mc.CalculateComparison(never, base),
		},
		InputPath: "proposal.yaml",
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}
	out := formatter.Format(sampleComparison())

	assert.Contains(t, out, "KIT COMPARISON")
	assert.Contains(t, out, "Proposal: Residência Silva")
	assert.Contains(t, out, "Input: proposal.yaml")
	assert.Contains(t, out, "Required power: 2.64 kWp")
	assert.Contains(t, out, "Kit gt-2.75-m (base)")
	assert.Contains(t, out, "R$14.0K")
	assert.Contains(t, out, "3y 8m")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "Price:    +R$1.5K")
	assert.Contains(t, out, "NPV:      -R$24.0K")
	assert.Contains(t, out, "Payback:  -4 months")
	assert.Contains(t, out, "RECOMMENDATIONS")
	assert.Contains(t, out, "Fastest Payback: Kit gt-3.30-m")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}
	out := formatter.FormatCompact(sampleComparison())
	assert.Equal(t, "Base: gt-2.75-m | gt-3.30-m: +R$6.5K | gt-11.10-t: -R$24.0K", out)
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(950), "950"},
		{decimal.NewFromInt(14000), "14.0K"},
		{decimal.NewFromInt(2500000), "2.50M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tf.formatDecimal(tt.in))
	}
	assert.Equal(t, "abc", tf.truncate("abc", 10))
	assert.Equal(t, "abcd...", tf.truncate("abcdefghijk", 7))
	assert.Equal(t, " ", tf.deltaSymbol(decimal.Zero))
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}
	out, err := formatter.Format(sampleComparison())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Kit", records[0][0])
	assert.Len(t, records[0], 13)

	assert.Equal(t, []string{"gt-2.75-m", "base", "2.75"}, records[1][:3])
	assert.Equal(t, "48", records[1][8])
	assert.Equal(t, "", records[1][12])

	assert.Equal(t, "alternative", records[2][1])
	assert.Equal(t, "44", records[2][8])
	assert.Equal(t, "1500.00", records[2][10])
	assert.Equal(t, "-4", records[2][12])

	assert.Equal(t, "", records[3][8], "unreached payback has no months")
	assert.Equal(t, "", records[3][12])
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := sampleComparison()

	compact, err := (&JSONFormatter{}).Format(compSet)
	require.NoError(t, err)
	assert.NotContains(t, compact, "\n")

	pretty, err := (&JSONFormatter{Pretty: true}).Format(compSet)
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n  ")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(pretty), &decoded))
	assert.Equal(t, "gt-2.75-m", decoded["baseKitId"])
	assert.Equal(t, "2.64", decoded["requiredKwp"])
	alts, ok := decoded["alternativeResults"].([]any)
	require.True(t, ok)
	assert.Len(t, alts, 2)
	never := alts[1].(map[string]any)
	assert.Equal(t, false, never["paybackReached"])
	assert.Nil(t, never["paybackYears"])
}
