// Package catalog models the equipment-kit catalog the proposal engine takes
// its equipment cost from. The real catalog is a remote supplier service;
// StaticCatalog serves a YAML kit list behind the same interface.
package catalog

import (
	"context"
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/kits.yaml
var embedded embed.FS

// Component is one line item of a kit
type Component struct {
	Kind      string          `yaml:"kind" json:"kind"`
	Brand     string          `yaml:"brand,omitempty" json:"brand,omitempty"`
	Model     string          `yaml:"model,omitempty" json:"model,omitempty"`
	Quantity  int             `yaml:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `yaml:"unit_price" json:"unitPrice"`
	PowerW    int             `yaml:"power_w,omitempty" json:"powerW,omitempty"`
}

// Kit is a complete grid-tie equipment kit
type Kit struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	Supplier      string          `yaml:"supplier,omitempty" json:"supplier,omitempty"`
	RoofType      string          `yaml:"roof_type,omitempty" json:"roofType,omitempty"`
	Phase         string          `yaml:"phase,omitempty" json:"phase,omitempty"`
	Voltage       int             `yaml:"voltage,omitempty" json:"voltage,omitempty"`
	Regions       []string        `yaml:"regions,omitempty" json:"regions,omitempty"`
	Components    []Component     `yaml:"components" json:"components"`
	TotalPrice    decimal.Decimal `yaml:"total_price,omitempty" json:"totalPrice"`
	TotalPowerKwp decimal.Decimal `yaml:"total_power_kwp,omitempty" json:"totalPowerKwp"`
	PanelCount    int             `yaml:"panel_count,omitempty" json:"panelCount"`
	PanelWattage  int             `yaml:"panel_wattage,omitempty" json:"panelWattage"`
	AreaM2        decimal.Decimal `yaml:"area_m2,omitempty" json:"areaM2"`
}

// ApplyTo makes the kit the pre-selected system of a proposal input
func (k Kit) ApplyTo(in *domain.ProposalInput) {
	kwp := k.TotalPowerKwp
	in.SystemKwp = &kwp
	in.PanelCount = k.PanelCount
	in.EquipmentCost = k.TotalPrice
}

// complete derives totals the data file left out from the component list
func (k *Kit) complete(panelArea decimal.Decimal) error {
	if k.ID == "" {
		return fmt.Errorf("kit %q has no id", k.Name)
	}
	sum := decimal.Zero
	panels, watts := 0, 0
	for _, c := range k.Components {
		if c.Quantity < 0 || c.UnitPrice.IsNegative() {
			return fmt.Errorf("kit %s: component %s has negative quantity or price", k.ID, c.Model)
		}
		qty := decimal.NewFromInt(int64(c.Quantity))
		sum = sum.Add(c.UnitPrice.Mul(qty))
		if strings.EqualFold(c.Kind, "panel") {
			panels += c.Quantity
			watts += c.Quantity * c.PowerW
			if k.PanelWattage == 0 {
				k.PanelWattage = c.PowerW
			}
		}
	}
	if k.TotalPrice.IsZero() {
		k.TotalPrice = sum
	}
	if k.PanelCount == 0 {
		k.PanelCount = panels
	}
	if k.TotalPowerKwp.IsZero() {
		k.TotalPowerKwp = decimal.NewFromInt(int64(watts)).Div(decimal.NewFromInt(1000))
	}
	if k.AreaM2.IsZero() {
		k.AreaM2 = panelArea.Mul(decimal.NewFromInt(int64(k.PanelCount))).Round(2)
	}
	if !k.TotalPowerKwp.IsPositive() {
		return fmt.Errorf("kit %s: total power must be positive", k.ID)
	}
	if !k.TotalPrice.IsPositive() {
		return fmt.Errorf("kit %s: total price must be positive", k.ID)
	}
	return nil
}

// Query holds the sizing constraints of a kit search. Zero values match anything.
type Query struct {
	MinKwp   decimal.Decimal `json:"minKwp"`
	MaxKwp   decimal.Decimal `json:"maxKwp"`
	RoofType string          `json:"roofType,omitempty"`
	Phase    string          `json:"phase,omitempty"`
	Voltage  int             `json:"voltage,omitempty"`
	Region   string          `json:"region,omitempty"`
	Limit    int             `json:"limit,omitempty"`
}

// Matches reports whether k satisfies the query constraints
func (q Query) Matches(k Kit) bool {
	if q.MinKwp.IsPositive() && k.TotalPowerKwp.LessThan(q.MinKwp) {
		return false
	}
	if q.MaxKwp.IsPositive() && k.TotalPowerKwp.GreaterThan(q.MaxKwp) {
		return false
	}
	if q.RoofType != "" && !strings.EqualFold(q.RoofType, k.RoofType) {
		return false
	}
	if q.Phase != "" && !strings.EqualFold(q.Phase, k.Phase) {
		return false
	}
	if q.Voltage != 0 && q.Voltage != k.Voltage {
		return false
	}
	if q.Region != "" && len(k.Regions) > 0 {
		found := false
		for _, r := range k.Regions {
			if strings.EqualFold(r, q.Region) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Catalog searches equipment kits
type Catalog interface {
	Search(ctx context.Context, q Query) ([]Kit, error)
}

type kitFile struct {
	Version string `yaml:"version"`
	Kits    []Kit  `yaml:"kits"`
}

// StaticCatalog is an in-memory catalog. It is immutable after construction.
type StaticCatalog struct {
	version string
	kits    []Kit
}

var defaultCatalog = sync.OnceValues(func() (*StaticCatalog, error) {
	data, err := embedded.ReadFile("data/kits.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded kit catalog: %w", err)
	}
	return Parse(data)
})

// Default returns the embedded sample catalog
func Default() (*StaticCatalog, error) {
	return defaultCatalog()
}

// LoadFile loads a catalog from a YAML file
func LoadFile(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML kit list
func Parse(data []byte) (*StaticCatalog, error) {
	var file kitFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	c, err := NewStaticCatalog(file.Kits)
	if err != nil {
		return nil, err
	}
	c.version = file.Version
	return c, nil
}

// NewStaticCatalog validates kits and derives missing totals
func NewStaticCatalog(kits []Kit) (*StaticCatalog, error) {
	panelArea := domain.DefaultAssumptions().Sizing.PanelAreaM2
	seen := make(map[string]bool, len(kits))
	out := make([]Kit, 0, len(kits))
	for _, k := range kits {
		if err := k.complete(panelArea); err != nil {
			return nil, err
		}
		if seen[k.ID] {
			return nil, fmt.Errorf("duplicate kit id %s", k.ID)
		}
		seen[k.ID] = true
		out = append(out, k)
	}
	sortKits(out)
	return &StaticCatalog{kits: out}, nil
}

// Search returns matching kits ordered by power, then price
func (c *StaticCatalog) Search(ctx context.Context, q Query) ([]Kit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Kit
	for _, k := range c.kits {
		if !q.Matches(k) {
			continue
		}
		out = append(out, k)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Kits returns every kit in the catalog
func (c *StaticCatalog) Kits() []Kit {
	out := make([]Kit, len(c.kits))
	copy(out, c.kits)
	return out
}

// Version returns the data-set version, if the file declared one
func (c *StaticCatalog) Version() string {
	return c.version
}

func sortKits(kits []Kit) {
	sort.SliceStable(kits, func(i, j int) bool {
		if !kits[i].TotalPowerKwp.Equal(kits[j].TotalPowerKwp) {
			return kits[i].TotalPowerKwp.LessThan(kits[j].TotalPowerKwp)
		}
		return kits[i].TotalPrice.LessThan(kits[j].TotalPrice)
	})
}
