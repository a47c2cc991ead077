package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNoCoveringKit   = errors.New("no kit in the catalog covers the required power")
	ErrBaseKitNotFound = errors.New("base kit not found among candidates")
)

// CompareEngine runs a proposal against every candidate kit of a catalog
type CompareEngine struct {
	CalcEngine        *calculation.ProposalEngine
	Catalog           catalog.Catalog
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.ProposalEngine, cat catalog.Catalog) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		Catalog:           cat,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Query     catalog.Query // constraints applied to every candidate search
	BaseKitID string        // kit to compare against; empty selects the smallest covering kit
	MaxKits   int           // cap on alternatives, 0 for all
}

// Compare sizes the input, searches candidate kits and prices a proposal for each
func (ce *CompareEngine) Compare(ctx context.Context, input domain.ProposalInput, options CompareOptions) (*ComparisonSet, error) {
	// Size without any pre-selected kit to learn the required power. The
	// equipment cost comes from each kit, so a placeholder passes validation.
	sizingInput := input
	sizingInput.SystemKwp = nil
	sizingInput.PanelCount = 0
	sizingInput.EquipmentCost = decimal.NewFromInt(1)
	prepared, err := ce.CalcEngine.Prepare(sizingInput)
	if err != nil {
		return nil, fmt.Errorf("failed to size proposal: %w", err)
	}
	required := prepared.Sizing.Kwp

	candidates, err := catalog.SearchAll(ctx, ce.Catalog, catalog.CandidateQueries(required, options.Query))
	if err != nil {
		return nil, fmt.Errorf("failed to search kits: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w (%s kWp)", ErrNoCoveringKit, required.StringFixed(2))
	}

	base, ok := ce.pickBase(candidates, required, options.BaseKitID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBaseKitNotFound, options.BaseKitID)
	}

	baseResult, err := ce.evaluate(input, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base kit %s: %w", base.ID, err)
	}

	alternatives := []KitResult{}
	for _, kit := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if kit.ID == base.ID {
			continue
		}
		altResult, err := ce.evaluate(input, kit)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate kit %s: %w", kit.ID, err)
		}
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}
	Rank(alternatives)
	if options.MaxKits > 0 && len(alternatives) > options.MaxKits {
		alternatives = alternatives[:options.MaxKits]
	}

	compSet := &ComparisonSet{
		ProposalName:       input.Name,
		RequiredKwp:        required,
		BaseKitID:          base.ID,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) pickBase(candidates []catalog.Kit, required decimal.Decimal, id string) (catalog.Kit, bool) {
	if id == "" {
		if kit, ok := catalog.SelectKit(candidates, required); ok {
			return kit, true
		}
		return candidates[0], true
	}
	for _, kit := range candidates {
		if kit.ID == id {
			return kit, true
		}
	}
	return catalog.Kit{}, false
}

func (ce *CompareEngine) evaluate(input domain.ProposalInput, kit catalog.Kit) (KitResult, error) {
	in := input
	kit.ApplyTo(&in)
	p, err := ce.CalcEngine.Calculate(in)
	if err != nil {
		return KitResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(kit, p), nil
}
