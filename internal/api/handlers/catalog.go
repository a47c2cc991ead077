package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/pvgo/internal/api/models"
	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/compare"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles kit search and kit comparison requests
type CatalogHandler struct {
	catalog catalog.Catalog
	compare *compare.CompareEngine
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(engine *calculation.ProposalEngine, cat catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		compare: compare.NewCompareEngine(engine, cat),
	}
}

// ListKits handles GET /api/v1/kits
func (h *CatalogHandler) ListKits(c *gin.Context) {
	var q models.KitsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	minKwp, err := parseKwp("minKwp", q.MinKwp)
	if err != nil {
		respondError(c, err)
		return
	}
	maxKwp, err := parseKwp("maxKwp", q.MaxKwp)
	if err != nil {
		respondError(c, err)
		return
	}

	kits, err := h.catalog.Search(c.Request.Context(), catalog.Query{
		MinKwp:   minKwp,
		MaxKwp:   maxKwp,
		RoofType: q.RoofType,
		Phase:    q.Phase,
		Voltage:  q.Voltage,
		Region:   q.Region,
		Limit:    q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if kits == nil {
		kits = []catalog.Kit{}
	}

	resp := models.KitsResponse{Count: len(kits), Kits: kits}
	if v, ok := h.catalog.(interface{ Version() string }); ok {
		resp.Version = v.Version()
	}
	c.JSON(http.StatusOK, resp)
}

// CompareKits handles POST /api/v1/compare
func (h *CatalogHandler) CompareKits(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	compSet, err := h.compare.Compare(c.Request.Context(), req.Input, compare.CompareOptions{
		Query:     req.Query,
		BaseKitID: req.BaseKitID,
		MaxKits:   req.MaxKits,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, compSet)
}

func parseKwp(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, domain.NewInvalidInput(field, "expected a non-negative number, got %q", s)
	}
	return d, nil
}
