package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultPaybackHorizons are the horizons, in years, of a default margin ladder
var DefaultPaybackHorizons = []decimal.Decimal{
	decimal.NewFromInt(3),
	decimal.NewFromInt(4),
	decimal.NewFromInt(5),
	decimal.NewFromInt(6),
}

// SolveLadder finds the highest margin for each payback horizon so a
// salesperson can trade margin against the payback promised to the customer.
func (s *Solver) SolveLadder(
	ctx context.Context,
	input domain.ProposalInput,
	horizons []decimal.Decimal,
) (*MarginLadder, error) {
	if len(horizons) == 0 {
		horizons = DefaultPaybackHorizons
	}

	ladder := &MarginLadder{}
	reachable := 0
	for _, years := range horizons {
		req := OptimizationRequest{
			Input:         input,
			Goal:          GoalPayback,
			Constraints:   PaybackConstraints(years),
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Optimize(ctx, req)
		if err != nil {
			return nil, err
		}
		if result.OptimalMargin != nil {
			reachable++
		}
		ladder.Results = append(ladder.Results, *result)
	}

	if reachable == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_ladder",
			Message:   "no payback horizon is reachable even at the minimum margin",
		}
	}

	ladder.Recommendations = s.generateLadderRecommendations(ladder)
	return ladder, nil
}

// generateLadderRecommendations creates one line per reachable horizon
func (s *Solver) generateLadderRecommendations(ladder *MarginLadder) []string {
	var recommendations []string

	for _, r := range ladder.Results {
		years := r.Request.Constraints.TargetPaybackYears
		if r.OptimalMargin == nil {
			recommendations = append(recommendations,
				fmt.Sprintf("Payback within %s years is not reachable at any margin", years.String()))
			continue
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Payback within %s years: margin up to %s%% (price R$%s, payback %s)",
				years.String(), r.OptimalMargin.StringFixed(2), r.Price.StringFixed(2), r.PaybackLabel()))
	}

	// Flag when the quoted margin already fits the first reachable horizon
	for _, r := range ladder.Results {
		if r.OptimalMargin == nil {
			continue
		}
		if r.BaseMargin.LessThanOrEqual(*r.OptimalMargin) {
			recommendations = append(recommendations,
				fmt.Sprintf("⭐ The quoted %s%% margin already pays back within %s years",
					r.BaseMargin.StringFixed(2), r.Request.Constraints.TargetPaybackYears.String()))
		}
		break
	}

	return recommendations
}
