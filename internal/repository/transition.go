package repository

import (
	"fmt"
	"sync"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var defaultTransition = sync.OnceValues(func() (domain.TransitionTable, error) {
	data, err := readEmbedded("transition.yaml")
	if err != nil {
		return domain.TransitionTable{}, err
	}
	return ParseTransition(data)
})

// DefaultTransitionTable returns the embedded Law 14.300 schedule
func DefaultTransitionTable() (domain.TransitionTable, error) {
	table, err := defaultTransition()
	if err != nil {
		return table, err
	}
	return copyTransition(table), nil
}

// LoadTransitionFile loads a transition schedule from a YAML file
func LoadTransitionFile(path string) (domain.TransitionTable, error) {
	data, err := readFile(path)
	if err != nil {
		return domain.TransitionTable{}, err
	}
	return ParseTransition(data)
}

// ParseTransition parses and validates a transition schedule. A missing
// ceiling defaults to 1.
func ParseTransition(data []byte) (domain.TransitionTable, error) {
	var raw struct {
		Version     string                  `yaml:"version"`
		Description string                  `yaml:"description"`
		Fractions   map[int]decimal.Decimal `yaml:"fractions"`
		Ceiling     *decimal.Decimal        `yaml:"ceiling"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.TransitionTable{}, fmt.Errorf("failed to parse transition YAML: %w", err)
	}
	table := domain.TransitionTable{
		Version:     raw.Version,
		Description: raw.Description,
		Fractions:   raw.Fractions,
		Ceiling:     decimal.NewFromInt(1),
	}
	if raw.Ceiling != nil {
		table.Ceiling = *raw.Ceiling
	}
	if err := table.Validate(); err != nil {
		return domain.TransitionTable{}, err
	}
	return table, nil
}

func copyTransition(t domain.TransitionTable) domain.TransitionTable {
	fractions := make(map[int]decimal.Decimal, len(t.Fractions))
	for y, f := range t.Fractions {
		fractions[y] = f
	}
	t.Fractions = fractions
	return t
}
