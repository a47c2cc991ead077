package calculation

import (
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CostComposer builds the operational cost and sale price of an installation
type CostComposer struct {
	Assumptions domain.CostAssumptions
}

// NewCostComposer creates a composer with the given assumptions
func NewCostComposer(a domain.CostAssumptions) *CostComposer {
	return &CostComposer{Assumptions: a}
}

// Compose returns the cost breakdown. Each component is rounded to cents and
// Total is their exact sum.
func (c *CostComposer) Compose(panelCount int, kwp, equipmentCost decimal.Decimal) (domain.CostBreakdown, error) {
	if panelCount < 0 {
		return domain.CostBreakdown{}, domain.NewInvalidInput("panelCount", "panel count cannot be negative, got %d", panelCount)
	}
	if equipmentCost.IsNegative() {
		return domain.CostBreakdown{}, domain.NewInvalidInput("equipmentCost", "equipment cost cannot be negative, got %s", equipmentCost)
	}
	a := c.Assumptions
	panels := decimal.NewFromInt(int64(panelCount))

	installRate := a.InstallRatePerPanel.Mul(one.Add(a.SafetyMarginPercent.Div(hundred)))
	installation := panels.Mul(installRate)

	b := domain.CostBreakdown{
		Equipment:       roundCurrency(equipmentCost),
		Transport:       roundCurrency(percentOf(equipmentCost, a.TransportPercent)),
		Installation:    roundCurrency(installation),
		Grounding:       roundCurrency(panels.Mul(a.GroundingRatePerPanel)),
		Permitting:      roundCurrency(c.PermitFee(kwp)),
		Signage:         roundCurrency(a.SignageFee),
		GeneralExpenses: roundCurrency(percentOf(installation, a.GeneralExpensesPercent)),
	}
	b.Total = b.ComponentsSum()
	return b, nil
}

// PermitFee returns the fee of the first band whose MaxKwp covers kwp. An
// open-ended band matches everything; past the last bounded band the last fee
// applies.
func (c *CostComposer) PermitFee(kwp decimal.Decimal) decimal.Decimal {
	bands := c.Assumptions.PermitBands
	for _, band := range bands {
		if band.MaxKwp == nil || kwp.LessThanOrEqual(*band.MaxKwp) {
			return band.Fee
		}
	}
	if len(bands) == 0 {
		return decimal.Zero
	}
	return bands[len(bands)-1].Fee
}

// Price grosses the cost up so that margin and commission are both fractions
// of the final price:
//
//	price = total / (1 - (margin + commission)/100)
func (c *CostComposer) Price(cost domain.CostBreakdown, kwp, marginPercent, commissionPercent decimal.Decimal) (domain.SalePrice, error) {
	if marginPercent.IsNegative() || commissionPercent.IsNegative() {
		return domain.SalePrice{}, domain.NewInvalidMargin("margin (%s%%) and commission (%s%%) cannot be negative", marginPercent, commissionPercent)
	}
	combined := marginPercent.Add(commissionPercent)
	if combined.GreaterThanOrEqual(hundred) {
		return domain.SalePrice{}, domain.NewInvalidMargin("margin %s%% + commission %s%% must be below 100%%", marginPercent, commissionPercent)
	}
	price := roundCurrency(cost.Total.Div(one.Sub(combined.Div(hundred))))
	sp := domain.SalePrice{
		Cost:              cost.Total,
		MarginPercent:     marginPercent,
		CommissionPercent: commissionPercent,
		MarginAmount:      roundCurrency(percentOf(price, marginPercent)),
		CommissionAmount:  roundCurrency(percentOf(price, commissionPercent)),
		Price:             price,
	}
	if kwp.IsPositive() {
		sp.PricePerKwp = roundCurrency(price.Div(kwp))
	}
	return sp, nil
}
