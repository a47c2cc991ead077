package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationGoal defines what outcome the margin must still achieve
type OptimizationGoal string

const (
	GoalPayback    OptimizationGoal = "payback"     // Payback within TargetPaybackYears
	GoalMinimumNPV OptimizationGoal = "minimum_npv" // NPV of at least MinimumNPV
)

// Constraints define the margin search range and the goal thresholds
type Constraints struct {
	// Base margin range, in percent of the sale price
	MinMargin *decimal.Decimal `json:"min_margin,omitempty"`
	MaxMargin *decimal.Decimal `json:"max_margin,omitempty"`

	// Payback horizon for the payback goal, in years (fractions allowed)
	TargetPaybackYears *decimal.Decimal `json:"target_payback_years,omitempty"`

	// NPV floor for the minimum_npv goal
	MinimumNPV *decimal.Decimal `json:"minimum_npv,omitempty"`
}

// DefaultConstraints returns a 0% to 60% margin range without a goal threshold
func DefaultConstraints() Constraints {
	minMargin := decimal.Zero
	maxMargin := decimal.NewFromInt(60)
	return Constraints{
		MinMargin: &minMargin,
		MaxMargin: &maxMargin,
	}
}

// PaybackConstraints returns the default range with a payback horizon
func PaybackConstraints(years decimal.Decimal) Constraints {
	c := DefaultConstraints()
	c.TargetPaybackYears = &years
	return c
}

// OptimizationRequest defines the parameters for a solver run
type OptimizationRequest struct {
	Input         domain.ProposalInput `json:"input"`
	Goal          OptimizationGoal     `json:"goal"`
	Constraints   Constraints          `json:"constraints"`
	MaxIterations int                  `json:"max_iterations"`
	Tolerance     decimal.Decimal      `json:"tolerance"` // margin percentage points
}

// OptimizationResult contains the results of a solver run
type OptimizationResult struct {
	// Optimization metadata
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// Highest margin meeting the goal; nil when even the minimum margin fails
	OptimalMargin *decimal.Decimal `json:"optimal_margin,omitempty"`

	// Results at the optimal margin, or at the minimum margin when unreachable
	Proposal    *domain.Proposal `json:"-"`
	Price       decimal.Decimal  `json:"price"`
	PricePerKwp decimal.Decimal  `json:"price_per_kwp"`
	NPV         decimal.Decimal  `json:"npv"`
	Payback     domain.Payback   `json:"payback"`

	// Comparison to the proposal at the input's own margin
	BaseMargin        decimal.Decimal `json:"base_margin"`
	BasePrice         decimal.Decimal `json:"base_price"`
	PriceDiffFromBase decimal.Decimal `json:"price_diff_from_base"`
}

// PaybackLabel renders the payback as "4y 7m" or "none"
func (r *OptimizationResult) PaybackLabel() string {
	if !r.Payback.Reached || r.Payback.Years == nil || r.Payback.Months == nil {
		return "none"
	}
	return fmt.Sprintf("%dy %dm", *r.Payback.Years, *r.Payback.Months)
}

// MarginLadder contains the highest margin for each of several payback horizons
type MarginLadder struct {
	Results         []OptimizationResult `json:"results"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance in margin percentage points
	MaxIterations int             // Maximum proposal evaluations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxIterations: 50,
	}
}

// Validate checks if constraints are internally consistent and carry the goal's threshold
func (c *Constraints) Validate(goal OptimizationGoal) error {
	switch goal {
	case GoalPayback:
		if c.TargetPaybackYears == nil || !c.TargetPaybackYears.IsPositive() {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "target_payback_years must be positive",
			}
		}
	case GoalMinimumNPV:
		if c.MinimumNPV == nil {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "minimum_npv is required",
			}
		}
	default:
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("unsupported optimization goal: %s", goal),
		}
	}

	if c.MinMargin != nil && c.MinMargin.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_margin cannot be negative",
		}
	}
	if lo, hi := c.bounds(); lo.GreaterThan(hi) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_margin cannot be greater than max_margin",
		}
	}
	return nil
}

// bounds returns the margin range with defaults filled in
func (c *Constraints) bounds() (decimal.Decimal, decimal.Decimal) {
	d := DefaultConstraints()
	lo, hi := *d.MinMargin, *d.MaxMargin
	if c.MinMargin != nil {
		lo = *c.MinMargin
	}
	if c.MaxMargin != nil {
		hi = *c.MaxMargin
	}
	return lo, hi
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
