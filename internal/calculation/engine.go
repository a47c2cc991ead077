package calculation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/rgehrsitz/pvgo/internal/repository"
	"github.com/shopspring/decimal"
)

// IrradianceSource resolves irradiance by location name
type IrradianceSource interface {
	Lookup(name string) (domain.IrradianceProfile, error)
}

// ProposalEngine orchestrates sizing, cost and financial projection for a proposal
type ProposalEngine struct {
	Irradiance  IrradianceSource
	Decomposer  *TariffDecomposer
	Assumptions domain.Assumptions
	Logger      Logger
	// Now is used for CreatedAt and the default reference year
	Now func() time.Time
}

// NewProposalEngine creates an engine over the given data sources
func NewProposalEngine(irr IrradianceSource, tariffs TariffSource, transition domain.TransitionTable, assumptions domain.Assumptions) *ProposalEngine {
	return &ProposalEngine{
		Irradiance:  irr,
		Decomposer:  NewTariffDecomposer(tariffs, transition),
		Assumptions: assumptions,
		Logger:      NopLogger{},
		Now:         time.Now,
	}
}

// NewDefaultProposalEngine creates an engine over the embedded data sets and
// the default assumptions.
func NewDefaultProposalEngine() (*ProposalEngine, error) {
	return NewProposalEngineFromSources(domain.DefaultAssumptions())
}

// NewProposalEngineFromSources loads the data files named in
// assumptions.Data, falling back to the embedded sets for empty paths.
func NewProposalEngineFromSources(assumptions domain.Assumptions) (*ProposalEngine, error) {
	var (
		irr        *repository.IrradianceRepository
		tariffs    *repository.TariffRepository
		transition domain.TransitionTable
		err        error
	)
	if path := assumptions.Data.IrradianceFile; path != "" {
		irr, err = repository.LoadIrradianceFile(path)
	} else {
		irr, err = repository.DefaultIrradianceRepository()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load irradiance data: %w", err)
	}
	if path := assumptions.Data.TariffFile; path != "" {
		tariffs, err = repository.LoadTariffFile(path)
	} else {
		tariffs, err = repository.DefaultTariffRepository()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff data: %w", err)
	}
	if path := assumptions.Data.TransitionFile; path != "" {
		transition, err = repository.LoadTransitionFile(path)
	} else {
		transition, err = repository.DefaultTransitionTable()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transition table: %w", err)
	}
	return NewProposalEngine(irr, tariffs, transition, assumptions), nil
}

// SetLogger sets the logger; nil restores the no-op logger
func (e *ProposalEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *ProposalEngine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *ProposalEngine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// ValidateInput checks the caller-supplied fields that do not depend on data lookups
func ValidateInput(in domain.ProposalInput) error {
	c := in.Consumption
	if c.AverageKwh != nil && c.AverageKwh.IsNegative() {
		return domain.NewInvalidInput("consumption.averageKwh", "cannot be negative")
	}
	if c.AverageCurrency != nil && c.AverageCurrency.IsNegative() {
		return domain.NewInvalidInput("consumption.averageCurrency", "cannot be negative")
	}
	if n := len(c.MonthlyKwh); n != 0 && n != 12 {
		return domain.NewInvalidInput("consumption.monthlyKwh", "expected 12 monthly values, got %d", n)
	}
	for i, v := range c.MonthlyKwh {
		if v.IsNegative() {
			return domain.NewInvalidInput("consumption.monthlyKwh", "month %d cannot be negative", i+1)
		}
	}
	for name, v := range map[string]*decimal.Decimal{
		"consumption.margin.percent":  c.Margin.Percent,
		"consumption.margin.kwh":      c.Margin.Kwh,
		"consumption.margin.currency": c.Margin.Currency,
	} {
		if v != nil && v.IsNegative() {
			return domain.NewInvalidInput(name, "cannot be negative")
		}
	}
	if !in.EquipmentCost.IsPositive() {
		return domain.NewInvalidInput("equipmentCost", "equipment cost must be positive, got %s", in.EquipmentCost)
	}
	if in.SystemKwp != nil && !in.SystemKwp.IsPositive() {
		return domain.NewInvalidInput("systemKwp", "pre-selected system power must be positive, got %s", in.SystemKwp)
	}
	if in.PanelCount < 0 {
		return domain.NewInvalidInput("panelCount", "cannot be negative")
	}
	if in.MinimumKwp != nil && in.MinimumKwp.IsNegative() {
		return domain.NewInvalidInput("minimumKwp", "cannot be negative")
	}
	if _, err := domain.ParseConsumerClass(in.ConsumerClass); err != nil {
		return err
	}
	if in.DisableFallback {
		if in.Location == "" {
			return domain.NewInvalidInput("location", "location is required when fallback is disabled")
		}
		if in.Distributor == "" {
			return domain.NewInvalidInput("distributor", "distributor is required when fallback is disabled")
		}
	}
	return nil
}

// ResolveIrradiance looks up location, substituting the documented default
// unless strict is set.
func (e *ProposalEngine) ResolveIrradiance(location string, strict bool) (domain.IrradianceProfile, *domain.Substitution, error) {
	reason := fmt.Sprintf("no irradiance data for %q; default irradiance used", location)
	if location != "" {
		p, err := e.Irradiance.Lookup(location)
		if err == nil {
			verr := p.Validate()
			if verr == nil {
				return p, nil, nil
			}
			err = &domain.CalculationError{
				Kind:    domain.KindUnresolvedLocation,
				Field:   "location",
				Message: fmt.Sprintf("irradiance data for %q is unusable", location),
				Cause:   verr,
			}
			reason = fmt.Sprintf("irradiance data for %q is unusable (%v); default irradiance used", location, verr)
		}
		if strict {
			return domain.IrradianceProfile{}, nil, err
		}
	} else if strict {
		return domain.IrradianceProfile{}, nil, domain.NewInvalidInput("location", "location is required when fallback is disabled")
	}
	p := domain.FallbackIrradiance(location)
	sub := &domain.Substitution{
		Field:  "location",
		Value:  domain.DefaultDailyIrradiance.String() + " " + string(domain.UnitKwhPerDay),
		Reason: reason,
	}
	return p, sub, nil
}

// Prepared is the lookup and sizing stage of a proposal, before any price is known
type Prepared struct {
	Input         domain.ProposalInput
	ReferenceYear int
	Class         domain.ConsumerClass
	Surcharge     domain.SurchargeLevel
	Tariff        domain.TariffComponents
	Rate          decimal.Decimal
	Consumption   domain.ConsumptionResolution
	Irradiance    domain.IrradianceProfile
	Sizing        domain.SystemSizing
	Substitutions []domain.Substitution
}

// Prepare validates input, resolves tariff, consumption and irradiance, and
// sizes the system. The minimum clamp and any pre-selected kit are applied.
func (e *ProposalEngine) Prepare(in domain.ProposalInput) (*Prepared, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	class, _ := domain.ParseConsumerClass(in.ConsumerClass)
	p := &Prepared{
		Input:         in,
		ReferenceYear: in.ReferenceYear,
		Class:         class,
		Surcharge:     domain.ParseSurchargeLevel(in.SurchargeLevel),
	}
	if p.ReferenceYear == 0 {
		p.ReferenceYear = e.now().Year()
	}

	tariff, sub, err := e.Decomposer.Resolve(in.Distributor, class, in.DisableFallback)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		e.logger().Warnf("tariff fallback: %s", sub.Reason)
		p.Substitutions = append(p.Substitutions, *sub)
	}
	p.Tariff = tariff
	p.Rate = tariff.TotalRateWithTaxes(p.Surcharge)

	consumption, err := ResolveConsumption(in.Consumption, p.Rate)
	if err != nil {
		return nil, err
	}
	p.Consumption = consumption
	e.logger().Debugf("consumption resolved to %s kWh via %s", consumption.Kwh.StringFixed(2), consumption.Strategy)

	irr, sub, err := e.ResolveIrradiance(in.Location, in.DisableFallback)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		e.logger().Warnf("irradiance fallback: %s", sub.Reason)
		p.Substitutions = append(p.Substitutions, *sub)
	}
	p.Irradiance = irr

	sizer := NewPowerSizer(e.Assumptions.Sizing)
	sizing, err := sizer.Size(consumption.Kwh, in.Consumption.Margin, p.Rate, irr)
	if err != nil {
		return nil, err
	}
	minKwp := e.Assumptions.Sizing.MinimumKwp
	if in.MinimumKwp != nil {
		minKwp = maxDecimal(minKwp, *in.MinimumKwp)
	}
	sizing = sizer.ClampToMinimum(sizing, minKwp, irr)
	if in.SystemKwp != nil {
		sizing = sizer.ApplyKit(sizing, *in.SystemKwp, in.PanelCount, 0, irr)
	}
	p.Sizing = sizing
	return p, nil
}

// Calculate produces a complete proposal for in
func (e *ProposalEngine) Calculate(in domain.ProposalInput) (*domain.Proposal, error) {
	p, err := e.Prepare(in)
	if err != nil {
		return nil, err
	}
	return e.Finish(p)
}

// Commission returns the sales commission percent applied to in
func (e *ProposalEngine) Commission(in domain.ProposalInput) decimal.Decimal {
	if in.CommissionPercent != nil {
		return *in.CommissionPercent
	}
	return e.Assumptions.Cost.CommissionPercent
}

// Finish prices and projects a prepared proposal. Callers that evaluate
// several prices for the same input reuse one Prepared value.
func (e *ProposalEngine) Finish(p *Prepared) (*domain.Proposal, error) {
	in := p.Input
	costA := e.Assumptions.Cost
	composer := NewCostComposer(costA)
	cost, err := composer.Compose(p.Sizing.PanelCount, p.Sizing.Kwp, in.EquipmentCost)
	if err != nil {
		return nil, err
	}
	margin := costA.MarginBasePercent
	if in.MarginPercent != nil {
		margin = *in.MarginPercent
	}
	price, err := composer.Price(cost, p.Sizing.Kwp, margin, e.Commission(in))
	if err != nil {
		return nil, err
	}

	decomposition := DecomposeTariff(p.Tariff, e.Decomposer.Transition, p.Consumption.Kwh, p.Surcharge, p.ReferenceYear)

	projector := NewCashFlowProjector(e.Assumptions.Financial)
	years, err := projector.Project(ProjectionInput{
		Tariff:         p.Tariff,
		SurchargeLevel: p.Surcharge,
		Transition:     e.Decomposer.Transition,
		ReferenceYear:  p.ReferenceYear,
		ConsumptionKwh: p.Consumption.Kwh,
		ProductionKwh:  p.Sizing.AnnualProductionKwh,
		Investment:     price.Price,
	})
	if err != nil {
		return nil, err
	}
	financials := Summarize(years, decomposition.PercentEconomy)

	proposal := &domain.Proposal{
		ID:                  uuid.NewString(),
		Name:                in.Name,
		CreatedAt:           e.now().UTC(),
		Consumption:         p.Consumption,
		Irradiance:          p.Irradiance,
		Tariff:              p.Tariff,
		Sizing:              p.Sizing,
		TariffDecomposition: decomposition,
		CostBreakdown:       cost,
		SalePrice:           price,
		CashFlow:            years,
		Financials:          financials,
		Metrics: domain.Metrics{
			MonthlySavings: financials.MonthlySavings,
			AnnualSavings:  financials.AnnualSavings,
			PaybackYears:   financials.Payback.Years,
			PaybackMonths:  financials.Payback.Months,
			NPV:            financials.NPV,
			PercentEconomy: financials.PercentEconomy,
		},
		Substitutions: append([]domain.Substitution{}, p.Substitutions...),
	}
	e.logger().Debugf("proposal %s: %s kWp, price %s, payback reached=%t",
		proposal.ID, p.Sizing.Kwp.StringFixed(2), price.Price.StringFixed(2), financials.Payback.Reached)
	return proposal, nil
}
