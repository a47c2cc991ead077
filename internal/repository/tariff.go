package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// NationalAverageDistributor is the key of the estimated fallback tariff
const NationalAverageDistributor = "national-average"

type tariffFile struct {
	Version             string                                    `yaml:"version"`
	FallbackDistributor string                                    `yaml:"fallback_distributor"`
	Surcharges          map[domain.SurchargeLevel]decimal.Decimal `yaml:"surcharges"`
	Tariffs             []domain.TariffComponents                 `yaml:"tariffs"`
}

type tariffKey struct {
	distributor string
	class       domain.ConsumerClass
}

// TariffRepository resolves tariff components by distributor and consumer class
type TariffRepository struct {
	version  string
	fallback string
	entries  map[tariffKey]domain.TariffComponents
	names    []string
}

var defaultTariffs = sync.OnceValues(func() (*TariffRepository, error) {
	data, err := readEmbedded("tariffs.yaml")
	if err != nil {
		return nil, err
	}
	return ParseTariffs(data)
})

// DefaultTariffRepository returns the embedded tariff table
func DefaultTariffRepository() (*TariffRepository, error) {
	return defaultTariffs()
}

// LoadTariffFile loads a tariff table from a YAML file
func LoadTariffFile(path string) (*TariffRepository, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTariffs(data)
}

// ParseTariffs parses a tariff table. File-level surcharges apply to every
// entry that does not declare its own.
func ParseTariffs(data []byte) (*TariffRepository, error) {
	var file tariffFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tariff YAML: %w", err)
	}
	for i := range file.Tariffs {
		if len(file.Tariffs[i].Surcharges) == 0 && len(file.Surcharges) > 0 {
			file.Tariffs[i].Surcharges = cloneSurcharges(file.Surcharges)
		}
	}
	repo, err := NewTariffRepository(file.Tariffs, file.FallbackDistributor)
	if err != nil {
		return nil, err
	}
	repo.version = file.Version
	return repo, nil
}

// NewTariffRepository builds a repository from tariff entries. fallback names
// the distributor used by NationalAverage; empty means NationalAverageDistributor.
func NewTariffRepository(tariffs []domain.TariffComponents, fallback string) (*TariffRepository, error) {
	if fallback == "" {
		fallback = NationalAverageDistributor
	}
	repo := &TariffRepository{
		fallback: normalizeKey(fallback),
		entries:  make(map[tariffKey]domain.TariffComponents, len(tariffs)),
	}
	seen := make(map[string]bool)
	for _, t := range tariffs {
		if t.Distributor == "" {
			return nil, fmt.Errorf("tariff entry without distributor")
		}
		class, err := domain.ParseConsumerClass(string(t.ConsumerClass))
		if err != nil {
			return nil, fmt.Errorf("tariff %s: %w", t.Distributor, err)
		}
		t.ConsumerClass = class
		if err := t.Validate(); err != nil {
			return nil, err
		}
		key := tariffKey{distributor: normalizeKey(t.Distributor), class: class}
		if _, dup := repo.entries[key]; dup {
			return nil, fmt.Errorf("duplicate tariff for %s/%s", t.Distributor, class)
		}
		t.Source = domain.SourceMeasured
		if key.distributor == repo.fallback {
			t.Source = domain.SourceFallback
		}
		t.Surcharges = cloneSurcharges(t.Surcharges)
		repo.entries[key] = t
		if !seen[key.distributor] {
			seen[key.distributor] = true
			repo.names = append(repo.names, t.Distributor)
		}
	}
	if _, ok := repo.entries[tariffKey{distributor: repo.fallback, class: domain.ClassResidential}]; !ok {
		return nil, fmt.Errorf("tariff table has no residential entry for fallback distributor %q", fallback)
	}
	sort.Strings(repo.names)
	return repo, nil
}

// Lookup returns the components for distributor and class. Distributor names
// are matched case-insensitively.
func (r *TariffRepository) Lookup(distributor string, class domain.ConsumerClass) (domain.TariffComponents, error) {
	key := tariffKey{distributor: normalizeKey(distributor), class: class}
	if key.distributor == "" {
		return domain.TariffComponents{}, &domain.CalculationError{
			Kind:    domain.KindUnresolvedDistributor,
			Field:   "distributor",
			Message: "distributor name is empty",
		}
	}
	t, ok := r.entries[key]
	if !ok {
		return domain.TariffComponents{}, &domain.CalculationError{
			Kind:    domain.KindUnresolvedDistributor,
			Field:   "distributor",
			Message: fmt.Sprintf("no tariff for %q (%s)", distributor, class),
		}
	}
	return copyTariff(t), nil
}

// NationalAverage returns the estimated tariff for class, falling back to the
// residential national average when the class has no entry of its own.
func (r *TariffRepository) NationalAverage(class domain.ConsumerClass) domain.TariffComponents {
	if t, ok := r.entries[tariffKey{distributor: r.fallback, class: class}]; ok {
		return copyTariff(t)
	}
	t := copyTariff(r.entries[tariffKey{distributor: r.fallback, class: domain.ClassResidential}])
	t.ConsumerClass = class
	return t
}

// Distributors lists the distributor names in alphabetical order
func (r *TariffRepository) Distributors() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Version returns the data-set version, if the file declared one
func (r *TariffRepository) Version() string {
	return r.version
}

func copyTariff(t domain.TariffComponents) domain.TariffComponents {
	t.Surcharges = cloneSurcharges(t.Surcharges)
	return t
}

func cloneSurcharges(in map[domain.SurchargeLevel]decimal.Decimal) map[domain.SurchargeLevel]decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make(map[domain.SurchargeLevel]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
