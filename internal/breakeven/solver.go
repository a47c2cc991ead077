package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Solver finds the highest base margin that still meets a proposal goal
type Solver struct {
	CalcEngine *calculation.ProposalEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.ProposalEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.ProposalEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize binary-searches the margin range. Price grows with the margin, so
// payback and NPV only get worse as the margin rises and the feasible margins
// form a single interval starting at the minimum.
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Constraints.Validate(req.Goal); err != nil {
		return nil, err
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}

	prepared, err := s.CalcEngine.Prepare(req.Input)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   "failed to prepare proposal",
			Cause:     err,
		}
	}
	base, err := s.CalcEngine.Finish(prepared)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   "failed to calculate base proposal",
			Cause:     err,
		}
	}

	evaluate := func(margin decimal.Decimal) (*domain.Proposal, error) {
		p := *prepared
		m := margin
		p.Input.MarginPercent = &m
		proposal, err := s.CalcEngine.Finish(&p)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "optimize",
				Message:   fmt.Sprintf("failed to calculate proposal at %s%% margin", margin.StringFixed(2)),
				Cause:     err,
			}
		}
		return proposal, nil
	}
	meets := s.goalCheck(req)

	lo, hi := req.Constraints.bounds()
	// Margin plus commission must stay below 100%
	ceiling := hundred.Sub(s.CalcEngine.Commission(req.Input)).Sub(req.Tolerance)
	if hi.GreaterThan(ceiling) {
		hi = ceiling
	}
	if lo.GreaterThan(hi) {
		return nil, &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("min_margin %s%% leaves no room below the %s%% commission",
				lo.StringFixed(2), s.CalcEngine.Commission(req.Input).StringFixed(2)),
		}
	}
	iterations := 0

	low, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	iterations++
	if !meets(low) {
		result := s.buildResult(req, base, low, nil, iterations)
		result.ConvergenceInfo = fmt.Sprintf("Goal not reachable even at %s%% margin", lo.StringFixed(2))
		return result, nil
	}

	high, err := evaluate(hi)
	if err != nil {
		return nil, err
	}
	iterations++
	if meets(high) {
		result := s.buildResult(req, base, high, &hi, iterations)
		result.Success = true
		result.ConvergenceInfo = "Goal met at the maximum margin"
		return result, nil
	}

	best := low
	two := decimal.NewFromInt(2)
	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++

		mid := lo.Add(hi).Div(two)
		p, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		if meets(p) {
			lo, best = mid, p
		} else {
			hi = mid
		}
	}
	converged := !hi.Sub(lo).GreaterThan(req.Tolerance)

	// Report a margin a salesperson can type
	margin := lo.Truncate(2)
	if !margin.Equal(lo) {
		if p, err := evaluate(margin); err == nil && meets(p) {
			best = p
		} else {
			margin = lo
		}
	}

	result := s.buildResult(req, base, best, &margin, iterations)
	if converged {
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Binary search converged within %s margin points", req.Tolerance.String())
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}
	return result, nil
}

// goalCheck returns the predicate a proposal must satisfy for the request's goal
func (s *Solver) goalCheck(req OptimizationRequest) func(*domain.Proposal) bool {
	switch req.Goal {
	case GoalMinimumNPV:
		floor := *req.Constraints.MinimumNPV
		return func(p *domain.Proposal) bool {
			return p.Financials.NPV.GreaterThanOrEqual(floor)
		}
	default:
		limit := req.Constraints.TargetPaybackYears.Mul(decimal.NewFromInt(12)).IntPart()
		return func(p *domain.Proposal) bool {
			months, ok := p.Financials.Payback.TotalMonths()
			return ok && int64(months) <= limit
		}
	}
}

// buildResult fills the result metrics from the proposal found at margin
func (s *Solver) buildResult(req OptimizationRequest, base, p *domain.Proposal, margin *decimal.Decimal, iterations int) *OptimizationResult {
	return &OptimizationResult{
		Request:           req,
		Iterations:        iterations,
		OptimalMargin:     margin,
		Proposal:          p,
		Price:             p.SalePrice.Price,
		PricePerKwp:       p.SalePrice.PricePerKwp,
		NPV:               p.Financials.NPV,
		Payback:           p.Financials.Payback,
		BaseMargin:        base.SalePrice.MarginPercent,
		BasePrice:         base.SalePrice.Price,
		PriceDiffFromBase: p.SalePrice.Price.Sub(base.SalePrice.Price),
	}
}
