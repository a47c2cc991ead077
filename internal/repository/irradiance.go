package repository

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"gopkg.in/yaml.v3"
)

type irradianceFile struct {
	Version   string                     `yaml:"version"`
	Unit      domain.IrradianceUnit      `yaml:"unit"`
	Locations []domain.IrradianceProfile `yaml:"locations"`
}

// IrradianceRepository looks up irradiance profiles by location name
type IrradianceRepository struct {
	version  string
	profiles []domain.IrradianceProfile
	byName   map[string]int
	keys     []string
}

var defaultIrradiance = sync.OnceValues(func() (*IrradianceRepository, error) {
	data, err := readEmbedded("irradiance.yaml")
	if err != nil {
		return nil, err
	}
	return ParseIrradiance(data)
})

// DefaultIrradianceRepository returns the embedded data set. It is parsed on
// first use and shared afterwards.
func DefaultIrradianceRepository() (*IrradianceRepository, error) {
	return defaultIrradiance()
}

// LoadIrradianceFile loads an irradiance data set from a YAML file
func LoadIrradianceFile(path string) (*IrradianceRepository, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseIrradiance(data)
}

// ParseIrradiance parses an irradiance data set. Profiles without their own
// unit inherit the file-level unit.
func ParseIrradiance(data []byte) (*IrradianceRepository, error) {
	var file irradianceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse irradiance YAML: %w", err)
	}
	for i := range file.Locations {
		if file.Locations[i].Unit == "" {
			file.Locations[i].Unit = file.Unit
		}
	}
	repo, err := NewIrradianceRepository(file.Locations)
	if err != nil {
		return nil, err
	}
	repo.version = file.Version
	return repo, nil
}

// NewIrradianceRepository builds a repository from profiles. Later duplicates
// of a location name are rejected.
func NewIrradianceRepository(profiles []domain.IrradianceProfile) (*IrradianceRepository, error) {
	repo := &IrradianceRepository{
		profiles: make([]domain.IrradianceProfile, 0, len(profiles)),
		byName:   make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if p.Unit == "" {
			p.Unit = domain.UnitKwhPerDay
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid irradiance profile: %w", err)
		}
		key := normalizeKey(p.Location)
		if _, dup := repo.byName[key]; dup {
			return nil, fmt.Errorf("duplicate irradiance location %q", p.Location)
		}
		p.Source = domain.SourceMeasured
		p.Monthly = cloneDecimals(p.Monthly)
		repo.byName[key] = len(repo.profiles)
		repo.keys = append(repo.keys, key)
		repo.profiles = append(repo.profiles, p)
	}
	return repo, nil
}

// Lookup resolves name by exact case-insensitive match first, then by
// case-insensitive substring in data-file order, then by the longest stored
// name that appears as whole words in name ("Belo Horizonte - MG").
func (r *IrradianceRepository) Lookup(name string) (domain.IrradianceProfile, error) {
	key := normalizeKey(name)
	if key == "" {
		return domain.IrradianceProfile{}, &domain.CalculationError{
			Kind:    domain.KindUnresolvedLocation,
			Field:   "location",
			Message: "location name is empty",
		}
	}
	if idx, ok := r.byName[key]; ok {
		return r.profile(idx), nil
	}
	for idx, candidate := range r.keys {
		if strings.Contains(candidate, key) {
			return r.profile(idx), nil
		}
	}
	best := -1
	for idx, candidate := range r.keys {
		if containsWords(key, candidate) && (best < 0 || len(candidate) > len(r.keys[best])) {
			best = idx
		}
	}
	if best >= 0 {
		return r.profile(best), nil
	}
	return domain.IrradianceProfile{}, &domain.CalculationError{
		Kind:    domain.KindUnresolvedLocation,
		Field:   "location",
		Message: fmt.Sprintf("no irradiance data for %q", name),
	}
}

// Locations lists location names in data-file order
func (r *IrradianceRepository) Locations() []string {
	names := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		names[i] = p.Location
	}
	return names
}

// Len returns the number of profiles
func (r *IrradianceRepository) Len() int {
	return len(r.profiles)
}

// Version returns the data-set version, if the file declared one
func (r *IrradianceRepository) Version() string {
	return r.version
}

// profile returns a copy so callers cannot mutate the shared slice.
func (r *IrradianceRepository) profile(idx int) domain.IrradianceProfile {
	p := r.profiles[idx]
	p.Monthly = cloneDecimals(p.Monthly)
	return p
}

// containsWords reports whether sub occurs in s bounded by non-letters
func containsWords(s, sub string) bool {
	for start := 0; start < len(s); {
		i := strings.Index(s[start:], sub)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(sub)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (i == 0 || !unicode.IsLetter(before)) && (end == len(s) || !unicode.IsLetter(after)) {
			return true
		}
		start = i + 1
	}
	return false
}
