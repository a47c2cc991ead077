package calculation

import (
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsumptionStrategy derives a monthly kWh figure from one representation of
// a consumption profile. ok is false when the representation is absent or does
// not yield a positive value.
type ConsumptionStrategy struct {
	Name    string
	Resolve func(p domain.ConsumptionProfile, rate decimal.Decimal) (kwh decimal.Decimal, ok bool)
}

// Strategy names reported in ConsumptionResolution.Strategy
const (
	StrategyMonthlySeries   = "monthly_series"
	StrategyAverageKwh      = "average_kwh"
	StrategyAverageCurrency = "average_currency"
)

// DefaultConsumptionPipeline is tried in order; the first positive result wins.
var DefaultConsumptionPipeline = []ConsumptionStrategy{
	{Name: StrategyMonthlySeries, Resolve: fromMonthlySeries},
	{Name: StrategyAverageKwh, Resolve: fromAverageKwh},
	{Name: StrategyAverageCurrency, Resolve: fromAverageCurrency},
}

func fromMonthlySeries(p domain.ConsumptionProfile, _ decimal.Decimal) (decimal.Decimal, bool) {
	if len(p.MonthlyKwh) != 12 {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, v := range p.MonthlyKwh {
		sum = sum.Add(v)
	}
	avg := sum.Div(twelve)
	return avg, avg.IsPositive()
}

func fromAverageKwh(p domain.ConsumptionProfile, _ decimal.Decimal) (decimal.Decimal, bool) {
	if p.AverageKwh == nil {
		return decimal.Zero, false
	}
	return *p.AverageKwh, p.AverageKwh.IsPositive()
}

func fromAverageCurrency(p domain.ConsumptionProfile, rate decimal.Decimal) (decimal.Decimal, bool) {
	if p.AverageCurrency == nil || !rate.IsPositive() {
		return decimal.Zero, false
	}
	kwh := p.AverageCurrency.Div(rate)
	return kwh, kwh.IsPositive()
}

// ResolveConsumption runs DefaultConsumptionPipeline. rate is the active
// tariff rate with taxes, used by the currency strategy.
func ResolveConsumption(p domain.ConsumptionProfile, rate decimal.Decimal) (domain.ConsumptionResolution, error) {
	return ResolveConsumptionWith(DefaultConsumptionPipeline, p, rate)
}

// ResolveConsumptionWith runs the given strategies in order.
func ResolveConsumptionWith(strategies []ConsumptionStrategy, p domain.ConsumptionProfile, rate decimal.Decimal) (domain.ConsumptionResolution, error) {
	for _, s := range strategies {
		if kwh, ok := s.Resolve(p, rate); ok {
			return domain.ConsumptionResolution{Kwh: kwh, Strategy: s.Name}, nil
		}
	}
	return domain.ConsumptionResolution{}, domain.NewInvalidInput("consumption", "no consumption representation resolves to a positive kWh value")
}

// ApplyMargin adds the safety margin to kwh. Percent wins over Kwh, which wins
// over Currency; the currency margin is converted with rate.
func ApplyMargin(kwh decimal.Decimal, m domain.MarginSpec, rate decimal.Decimal) decimal.Decimal {
	switch {
	case m.Percent != nil && m.Percent.IsPositive():
		return kwh.Add(percentOf(kwh, *m.Percent))
	case m.Kwh != nil && m.Kwh.IsPositive():
		return kwh.Add(*m.Kwh)
	case m.Currency != nil && m.Currency.IsPositive() && rate.IsPositive():
		return kwh.Add(m.Currency.Div(rate))
	}
	return kwh
}
