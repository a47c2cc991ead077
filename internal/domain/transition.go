package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TransitionTable maps calendar years to the fraction of the distribution-use
// charge that is billed regardless of solar generation. It is loaded from
// versioned configuration so new schedules do not need a rebuild.
type TransitionTable struct {
	Version     string                  `yaml:"version" json:"version"`
	Description string                  `yaml:"description,omitempty" json:"description,omitempty"`
	Fractions   map[int]decimal.Decimal `yaml:"fractions" json:"fractions"`
	Ceiling     decimal.Decimal         `yaml:"ceiling" json:"ceiling"`
}

// Validate checks range and monotonicity of the schedule
func (t TransitionTable) Validate() error {
	if len(t.Fractions) == 0 {
		return fmt.Errorf("transition table %q has no years", t.Version)
	}
	one := decimal.NewFromInt(1)
	if t.Ceiling.IsNegative() || t.Ceiling.GreaterThan(one) {
		return fmt.Errorf("transition table %q: ceiling must be between 0 and 1", t.Version)
	}
	prev := decimal.Zero
	for _, year := range t.years() {
		f := t.Fractions[year]
		if f.IsNegative() || f.GreaterThan(one) {
			return fmt.Errorf("transition table %q: fraction for %d must be between 0 and 1", t.Version, year)
		}
		if f.LessThan(prev) {
			return fmt.Errorf("transition table %q: fraction for %d decreases (%s < %s)", t.Version, year, f, prev)
		}
		prev = f
	}
	if t.Ceiling.LessThan(prev) {
		return fmt.Errorf("transition table %q: ceiling %s below last fraction %s", t.Version, t.Ceiling, prev)
	}
	return nil
}

// NonCompensableFraction returns the fraction for year. Years before the table
// are zero, years past it use the ceiling, and gaps carry the last defined value.
func (t TransitionTable) NonCompensableFraction(year int) decimal.Decimal {
	years := t.years()
	if len(years) == 0 {
		return t.Ceiling
	}
	if year < years[0] {
		return decimal.Zero
	}
	if year > years[len(years)-1] {
		return t.Ceiling
	}
	fraction := decimal.Zero
	for _, y := range years {
		if y > year {
			break
		}
		fraction = t.Fractions[y]
	}
	return fraction
}

// CompensableFraction returns 1 - NonCompensableFraction(year).
func (t TransitionTable) CompensableFraction(year int) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(t.NonCompensableFraction(year))
}

func (t TransitionTable) years() []int {
	years := make([]int, 0, len(t.Fractions))
	for y := range t.Fractions {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
