package models

import (
	"github.com/rgehrsitz/pvgo/internal/breakeven"
	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ProposalRequest is the body of POST /api/v1/proposals
type ProposalRequest = domain.ProposalInput

// DecomposeRequest asks for the decomposition of one monthly bill
type DecomposeRequest struct {
	ConsumptionKwh  decimal.Decimal `json:"consumptionKwh"`
	Distributor     string          `json:"distributor"`
	ConsumerClass   string          `json:"consumerClass,omitempty"`
	SurchargeLevel  string          `json:"surchargeLevel,omitempty"`
	Year            int             `json:"year,omitempty"` // default: current year
	DisableFallback bool            `json:"disableFallback,omitempty"`
}

// CompareRequest runs a proposal against the candidate kits of the catalog
type CompareRequest struct {
	Input     domain.ProposalInput `json:"input"`
	Query     catalog.Query        `json:"query,omitempty"`
	BaseKitID string               `json:"baseKitId,omitempty"`
	MaxKits   int                  `json:"maxKits,omitempty" binding:"gte=0"`
}

// BreakEvenRequest searches the highest margin meeting a goal. An empty
// Horizons list with a payback goal and no target runs the margin ladder.
type BreakEvenRequest struct {
	Input         domain.ProposalInput       `json:"input"`
	Goal          breakeven.OptimizationGoal `json:"goal,omitempty" binding:"omitempty,oneof=payback minimum_npv"`
	Constraints   breakeven.Constraints      `json:"constraints,omitempty"`
	MaxIterations int                        `json:"maxIterations,omitempty" binding:"gte=0"`
	Tolerance     decimal.Decimal            `json:"tolerance,omitempty"`
	Horizons      []decimal.Decimal          `json:"horizons,omitempty"`
}

// KitsQuery holds the query string of GET /api/v1/kits. Power bounds stay
// strings until parsed into decimals.
type KitsQuery struct {
	MinKwp   string `form:"minKwp"`
	MaxKwp   string `form:"maxKwp"`
	RoofType string `form:"roofType"`
	Phase    string `form:"phase"`
	Voltage  int    `form:"voltage" binding:"gte=0"`
	Region   string `form:"region"`
	Limit    int    `form:"limit" binding:"gte=0"`
}
