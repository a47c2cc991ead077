package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultSearchWindows are the power windows, relative to the required power,
// searched for candidate kits.
var DefaultSearchWindows = [][2]decimal.Decimal{
	{decimal.NewFromInt(1), decimal.RequireFromString("1.15")},
	{decimal.RequireFromString("1.15"), decimal.RequireFromString("1.35")},
	{decimal.RequireFromString("1.35"), decimal.RequireFromString("1.75")},
}

// CandidateQueries expands base into one query per search window around requiredKwp
func CandidateQueries(requiredKwp decimal.Decimal, base Query) []Query {
	queries := make([]Query, 0, len(DefaultSearchWindows))
	for _, w := range DefaultSearchWindows {
		q := base
		q.MinKwp = requiredKwp.Mul(w[0]).Round(2)
		q.MaxKwp = requiredKwp.Mul(w[1]).Round(2)
		queries = append(queries, q)
	}
	return queries
}

// SearchAll runs the queries concurrently and merges the results. Kits returned
// by more than one query appear once. The first failing query cancels the rest.
func SearchAll(ctx context.Context, cat Catalog, queries []Query) ([]Kit, error) {
	results := make([][]Kit, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			kits, err := cat.Search(gctx, q)
			if err != nil {
				return fmt.Errorf("kit search %d failed: %w", i, err)
			}
			results[i] = kits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []Kit
	for _, kits := range results {
		for _, k := range kits {
			if seen[k.ID] {
				continue
			}
			seen[k.ID] = true
			merged = append(merged, k)
		}
	}
	sortKits(merged)
	return merged, nil
}

// SelectKit returns the smallest kit whose power covers requiredKwp, the
// cheapest one on ties. ok is false when no kit is large enough.
func SelectKit(kits []Kit, requiredKwp decimal.Decimal) (Kit, bool) {
	var best Kit
	found := false
	for _, k := range kits {
		if k.TotalPowerKwp.LessThan(requiredKwp) {
			continue
		}
		if !found ||
			k.TotalPowerKwp.LessThan(best.TotalPowerKwp) ||
			(k.TotalPowerKwp.Equal(best.TotalPowerKwp) && k.TotalPrice.LessThan(best.TotalPrice)) {
			best = k
			found = true
		}
	}
	return best, found
}

// MinimumKwp returns the power of the smallest kit, zero for an empty list
func MinimumKwp(kits []Kit) decimal.Decimal {
	smallest := decimal.Zero
	for i, k := range kits {
		if i == 0 || k.TotalPowerKwp.LessThan(smallest) {
			smallest = k.TotalPowerKwp
		}
	}
	return smallest
}
