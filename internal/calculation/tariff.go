package calculation

import (
	"fmt"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TariffSource resolves tariff components. repository.TariffRepository
// satisfies it; tests can pass a fake.
type TariffSource interface {
	Lookup(distributor string, class domain.ConsumerClass) (domain.TariffComponents, error)
	NationalAverage(class domain.ConsumerClass) domain.TariffComponents
}

// DecompositionRequest describes one monthly bill to decompose
type DecompositionRequest struct {
	ConsumptionKwh decimal.Decimal
	Distributor    string
	ConsumerClass  domain.ConsumerClass
	SurchargeLevel domain.SurchargeLevel
	Year           int
	// Strict disables the national-average fallback
	Strict bool
}

// TariffDecomposer splits a bill into compensable and non-compensable parts
// using a tariff source and a transition schedule.
type TariffDecomposer struct {
	Tariffs    TariffSource
	Transition domain.TransitionTable
}

// NewTariffDecomposer creates a decomposer
func NewTariffDecomposer(tariffs TariffSource, transition domain.TransitionTable) *TariffDecomposer {
	return &TariffDecomposer{Tariffs: tariffs, Transition: transition}
}

// Resolve returns the tariff for distributor/class. Unknown or empty
// distributors fall back to the national average unless strict is set; the
// returned substitution is non-nil when that happened.
func (d *TariffDecomposer) Resolve(distributor string, class domain.ConsumerClass, strict bool) (domain.TariffComponents, *domain.Substitution, error) {
	if class == "" {
		class = domain.ClassResidential
	}
	if distributor == "" && strict {
		return domain.TariffComponents{}, nil, domain.NewInvalidInput("distributor", "distributor is required when fallback is disabled")
	}
	if distributor != "" {
		t, err := d.Tariffs.Lookup(distributor, class)
		if err == nil {
			return t, nil, nil
		}
		if strict {
			return domain.TariffComponents{}, nil, err
		}
	}
	t := d.Tariffs.NationalAverage(class)
	t.Source = domain.SourceFallback
	sub := &domain.Substitution{
		Field:  "distributor",
		Value:  t.Distributor,
		Reason: fmt.Sprintf("no tariff for distributor %q (%s); national average used", distributor, class),
	}
	return t, sub, nil
}

// Decompose resolves the tariff and decomposes the bill for req.
func (d *TariffDecomposer) Decompose(req DecompositionRequest) (domain.TariffDecomposition, *domain.Substitution, error) {
	t, sub, err := d.Resolve(req.Distributor, req.ConsumerClass, req.Strict)
	if err != nil {
		return domain.TariffDecomposition{}, nil, err
	}
	return DecomposeTariff(t, d.Transition, req.ConsumptionKwh, req.SurchargeLevel, req.Year), sub, nil
}

// DecomposeTariff is the pure decomposition of a monthly bill.
//
// The energy charge and the seasonal surcharge are fully compensable. The
// distribution charge is split by the transition schedule for year. Taxes
// apply to the full base. PercentEconomy counts the surcharge rate in both the
// compensable share and the base, so at level none it is
// (energy + compensable distribution) / (energy + distribution). Non-positive
// consumption yields zero totals and a zero PercentEconomy.
func DecomposeTariff(t domain.TariffComponents, table domain.TransitionTable, consumptionKwh decimal.Decimal, level domain.SurchargeLevel, year int) domain.TariffDecomposition {
	level = domain.ParseSurchargeLevel(string(level))
	nonComp := table.NonCompensableFraction(year)
	comp := one.Sub(nonComp)

	dec := domain.TariffDecomposition{
		Distributor:            t.Distributor,
		ConsumerClass:          t.ConsumerClass,
		SurchargeLevel:         level,
		Year:                   year,
		ConsumptionKwh:         consumptionKwh,
		CompensableFraction:    comp,
		NonCompensableFraction: nonComp,
		TaxMultiplier:          t.Taxes.Multiplier(),
		Estimated:              t.IsEstimated(),
	}
	if !consumptionKwh.IsPositive() {
		dec.ConsumptionKwh = decimal.Zero
		return dec
	}

	dec.EnergyCharge = consumptionKwh.Mul(t.EnergyRate)
	dec.SurchargeCharge = consumptionKwh.Mul(t.SurchargeRate(level))
	dec.DistributionCharge = consumptionKwh.Mul(t.DistributionRate)
	dec.CompensableDistribution = dec.DistributionCharge.Mul(comp)
	dec.NonCompensableDistribution = dec.DistributionCharge.Sub(dec.CompensableDistribution)

	dec.BaseTotal = dec.EnergyCharge.Add(dec.SurchargeCharge).Add(dec.DistributionCharge)
	dec.ICMS = dec.BaseTotal.Mul(t.Taxes.ICMS)
	dec.PIS = dec.BaseTotal.Mul(t.Taxes.PIS)
	dec.COFINS = dec.BaseTotal.Mul(t.Taxes.COFINS)
	dec.GrandTotal = dec.BaseTotal.Add(dec.TaxTotal())

	base := t.BaseRate(level)
	if base.IsPositive() {
		compensable := t.EnergyRate.Add(t.SurchargeRate(level)).Add(t.DistributionRate.Mul(comp))
		dec.PercentEconomy = compensable.Div(base).Mul(hundred).Round(1)
	}
	return dec
}
