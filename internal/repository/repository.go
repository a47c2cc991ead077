// Package repository provides the read-only reference data used by the
// engine: irradiance by location, tariff components by distributor, and the
// regulatory transition schedule. Every repository is immutable once built,
// so it can be shared across goroutines without locking.
package repository

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed data/*.yaml
var embedded embed.FS

func readEmbedded(name string) ([]byte, error) {
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// normalizeKey lower-cases, trims and strips diacritics so "Sao Paulo"
// matches "São Paulo".
func normalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

func cloneDecimals(in []decimal.Decimal) []decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make([]decimal.Decimal, len(in))
	copy(out, in)
	return out
}
