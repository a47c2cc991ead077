package models

import (
	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// DecomposeResponse is the decomposition of one monthly bill
type DecomposeResponse struct {
	Decomposition domain.TariffDecomposition `json:"decomposition"`
	Substitutions []domain.Substitution      `json:"substitutions"`
}

// IrradianceResponse represents the resolved irradiance of a location
type IrradianceResponse struct {
	Profile       domain.IrradianceProfile `json:"profile"`
	DailyKwhPerM2 decimal.Decimal          `json:"dailyKwhPerM2"`
	Estimated     bool                     `json:"estimated"`
	Substitutions []domain.Substitution    `json:"substitutions"`
}

// KitsResponse lists the kits matching a catalog query
type KitsResponse struct {
	Version string        `json:"version,omitempty"`
	Count   int           `json:"count"`
	Kits    []catalog.Kit `json:"kits"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
