package compare

import (
	"testing"

	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func result(id string, price, npv int64, years, months int) KitResult {
	r := KitResult{
		KitID:         id,
		KitName:       "Kit " + id,
		Price:         decimal.NewFromInt(price),
		NPV:           decimal.NewFromInt(npv),
		AnnualSavings: decimal.NewFromInt(npv / 10),
	}
	if years >= 0 {
		r.PaybackReached = true
		r.PaybackYears = intPtr(years)
		r.PaybackMonths = intPtr(months)
	}
	return r
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	mc := NewMetricsCalculator()
	kit := catalog.Kit{ID: "gt-3.30-m", Name: "Kit 3.30", Supplier: "SolarDistribuidora"}
	p := &domain.Proposal{
		Sizing:        domain.SystemSizing{Kwp: decimal.RequireFromString("3.3"), PanelCount: 6},
		CostBreakdown: domain.CostBreakdown{Equipment: decimal.NewFromInt(7980)},
		SalePrice:     domain.SalePrice{Price: decimal.NewFromInt(15000)},
		Financials: domain.ProjectFinancials{
			AnnualSavings: decimal.NewFromInt(3600),
			NPV:           decimal.NewFromInt(21000),
			Payback:       domain.Payback{Reached: true, Years: intPtr(4), Months: intPtr(2)},
		},
		CashFlow: []domain.CashFlowYear{
			{ConsumptionKwh: decimal.NewFromInt(3600), ProductionKwh: decimal.NewFromInt(4500)},
		},
	}

	r := mc.CalculateMetrics(kit, p)
	assert.Equal(t, "gt-3.30-m", r.KitID)
	assert.Equal(t, "SolarDistribuidora", r.Supplier)
	assert.Same(t, p, r.Proposal)
	assert.Equal(t, 6, r.PanelCount)
	assert.True(t, r.Price.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, "125.0", r.CoveragePercent.StringFixed(1))
	assert.Equal(t, "4y 2m", r.PaybackLabel())
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()
	base := result("base", 14000, 20000, 4, 0)

	tests := []struct {
		name       string
		kit        KitResult
		priceDiff  int64
		npvDiff    int64
		monthsDiff *int
	}{
		{"more expensive, faster", result("a", 16000, 23000, 3, 6), 2000, 3000, intPtr(-6)},
		{"cheaper, slower", result("b", 12000, 18000, 4, 9), -2000, -2000, intPtr(9)},
		{"never pays back", result("c", 30000, -5000, -1, 0), 16000, -25000, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mc.CalculateComparison(tt.kit, base)
			assert.True(t, got.PriceDiffFromBase.Equal(decimal.NewFromInt(tt.priceDiff)), got.PriceDiffFromBase.String())
			assert.True(t, got.NPVDiffFromBase.Equal(decimal.NewFromInt(tt.npvDiff)), got.NPVDiffFromBase.String())
			assert.Equal(t, tt.monthsDiff, got.PaybackMonthsDiff)
		})
	}
}

func TestPaybackLabel_NotReached(t *testing.T) {
	r := result("x", 1, 1, -1, 0)
	assert.Equal(t, "none", r.PaybackLabel())
	_, ok := r.totalMonths()
	assert.False(t, ok)
}

func TestRank(t *testing.T) {
	results := []KitResult{
		result("never", 9000, 100, -1, 0),
		result("slow", 9000, 5000, 6, 0),
		result("fast-low-npv", 9000, 1000, 3, 0),
		result("fast-high-npv", 9000, 2000, 3, 0),
	}
	Rank(results)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.KitID
	}
	assert.Equal(t, []string{"fast-high-npv", "fast-low-npv", "slow", "never"}, ids)
}

func TestGenerateRecommendations(t *testing.T) {
	base := result("base", 14000, 20000, 4, 0)
	compSet := &ComparisonSet{
		BaseResult: &base,
		AlternativeResults: []KitResult{
			result("big", 20000, 26000, 4, 6),
			result("quick", 15000, 21000, 3, 2),
			result("cheap", 11000, 15000, 4, 3),
		},
	}

	recs := GenerateRecommendations(compSet)
	require.Len(t, recs, 3)
	assert.Equal(t, "Best NPV: Kit big adds R$6000 of net present value over the base kit", recs[0])
	assert.Equal(t, "Fastest Payback: Kit quick pays back in 3y 2m", recs[1])
	assert.Equal(t, "Lowest Price: Kit cheap costs R$3000 less than the base kit", recs[2])
}

func TestGenerateRecommendations_BaseWinsEverything(t *testing.T) {
	base := result("base", 10000, 30000, 2, 0)
	compSet := &ComparisonSet{
		BaseResult:         &base,
		AlternativeResults: []KitResult{result("worse", 12000, 20000, 3, 0)},
	}
	assert.Empty(t, GenerateRecommendations(compSet))
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))
}
