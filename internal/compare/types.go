package compare

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// KitResult is the proposal outcome for one candidate kit
type KitResult struct {
	KitID    string           `json:"kitId"`
	KitName  string           `json:"kitName"`
	Supplier string           `json:"supplier,omitempty"`
	Proposal *domain.Proposal `json:"-"`

	// Key Metrics
	Kwp             decimal.Decimal  `json:"kwp"`
	PanelCount      int              `json:"panelCount"`
	EquipmentCost   decimal.Decimal  `json:"equipmentCost"`
	Price           decimal.Decimal  `json:"price"`
	AnnualSavings   decimal.Decimal  `json:"annualSavings"`
	NPV             decimal.Decimal  `json:"npv"`
	PaybackReached  bool             `json:"paybackReached"`
	PaybackYears    *int             `json:"paybackYears"`
	PaybackMonths   *int             `json:"paybackMonths"`
	FractionalYears *decimal.Decimal `json:"fractionalYears"`
	CoveragePercent decimal.Decimal  `json:"coveragePercent"` // year-1 production over consumption

	// Comparison to Base
	PriceDiffFromBase   decimal.Decimal `json:"priceDiffFromBase"`
	NPVDiffFromBase     decimal.Decimal `json:"npvDiffFromBase"`
	PaybackMonthsDiff   *int            `json:"paybackMonthsDiff"`
	SavingsDiffFromBase decimal.Decimal `json:"savingsDiffFromBase"`
}

// totalMonths returns the payback in months, or false when never reached
func (r KitResult) totalMonths() (int, bool) {
	if !r.PaybackReached || r.PaybackYears == nil || r.PaybackMonths == nil {
		return 0, false
	}
	return *r.PaybackYears*12 + *r.PaybackMonths, true
}

// PaybackLabel renders the payback as "3y 8m" or "none"
func (r KitResult) PaybackLabel() string {
	if !r.PaybackReached || r.PaybackYears == nil || r.PaybackMonths == nil {
		return "none"
	}
	return fmt.Sprintf("%dy %dm", *r.PaybackYears, *r.PaybackMonths)
}

// ComparisonSet represents the kit comparison for one proposal input
type ComparisonSet struct {
	ProposalName       string          `json:"proposalName,omitempty"`
	RequiredKwp        decimal.Decimal `json:"requiredKwp"`
	BaseKitID          string          `json:"baseKitId"`
	BaseResult         *KitResult      `json:"baseResult"`
	AlternativeResults []KitResult     `json:"alternativeResults"`
	Recommendations    []string        `json:"recommendations"`
	InputPath          string          `json:"inputPath,omitempty"`
}

// MetricsCalculator extracts key metrics from proposals
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics of a kit proposal
func (mc *MetricsCalculator) CalculateMetrics(kit catalog.Kit, p *domain.Proposal) KitResult {
	pb := p.Financials.Payback
	result := KitResult{
		KitID:           kit.ID,
		KitName:         kit.Name,
		Supplier:        kit.Supplier,
		Proposal:        p,
		Kwp:             p.Sizing.Kwp,
		PanelCount:      p.Sizing.PanelCount,
		EquipmentCost:   p.CostBreakdown.Equipment,
		Price:           p.SalePrice.Price,
		AnnualSavings:   p.Financials.AnnualSavings,
		NPV:             p.Financials.NPV,
		PaybackReached:  pb.Reached,
		PaybackYears:    pb.Years,
		PaybackMonths:   pb.Months,
		FractionalYears: pb.FractionalYears,
	}
	if len(p.CashFlow) > 0 && p.CashFlow[0].ConsumptionKwh.IsPositive() {
		first := p.CashFlow[0]
		result.CoveragePercent = first.ProductionKwh.Div(first.ConsumptionKwh).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return result
}

// CalculateComparison computes deltas between a kit and the base kit
func (mc *MetricsCalculator) CalculateComparison(kit, base KitResult) KitResult {
	kit.PriceDiffFromBase = kit.Price.Sub(base.Price)
	kit.NPVDiffFromBase = kit.NPV.Sub(base.NPV)
	kit.SavingsDiffFromBase = kit.AnnualSavings.Sub(base.AnnualSavings)

	kitMonths, kitOK := kit.totalMonths()
	baseMonths, baseOK := base.totalMonths()
	if kitOK && baseOK {
		diff := kitMonths - baseMonths
		kit.PaybackMonthsDiff = &diff
	} else {
		kit.PaybackMonthsDiff = nil
	}
	return kit
}

// Rank orders results by payback (reached first, shortest first) and then by NPV
func Rank(results []KitResult) {
	sort.SliceStable(results, func(i, j int) bool {
		mi, oki := results[i].totalMonths()
		mj, okj := results[j].totalMonths()
		if oki != okj {
			return oki
		}
		if oki && mi != mj {
			return mi < mj
		}
		return results[i].NPV.GreaterThan(results[j].NPV)
	})
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Best NPV
	bestNPV := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NPV.GreaterThan(bestNPV.NPV) {
			bestNPV = alt
		}
	}
	if bestNPV != compSet.BaseResult {
		diff := bestNPV.NPV.Sub(compSet.BaseResult.NPV)
		recommendations = append(recommendations,
			"Best NPV: "+bestNPV.KitName+" adds R$"+diff.StringFixed(0)+" of net present value over the base kit")
	}

	// Fastest payback
	fastest := compSet.BaseResult
	fastestMonths, fastestOK := fastest.totalMonths()
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		m, ok := alt.totalMonths()
		if ok && (!fastestOK || m < fastestMonths) {
			fastest, fastestMonths, fastestOK = alt, m, true
		}
	}
	if fastest != compSet.BaseResult {
		recommendations = append(recommendations,
			"Fastest Payback: "+fastest.KitName+" pays back in "+fastest.PaybackLabel())
	}

	// Lowest price
	cheapest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Price.LessThan(cheapest.Price) {
			cheapest = alt
		}
	}
	if cheapest != compSet.BaseResult {
		savings := compSet.BaseResult.Price.Sub(cheapest.Price)
		recommendations = append(recommendations,
			"Lowest Price: "+cheapest.KitName+" costs R$"+savings.StringFixed(0)+" less than the base kit")
	}

	return recommendations
}
