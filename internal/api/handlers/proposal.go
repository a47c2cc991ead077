package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/pvgo/internal/api/models"
	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/config"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/rgehrsitz/pvgo/internal/output"
)

var formatContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"html": "text/html; charset=utf-8",
	"yaml": "application/yaml",
}

// ProposalHandler handles proposal, bill decomposition and irradiance requests
type ProposalHandler struct {
	engine *calculation.ProposalEngine
	parser *config.InputParser
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(engine *calculation.ProposalEngine) *ProposalHandler {
	return &ProposalHandler{
		engine: engine,
		parser: config.NewInputParser(),
	}
}

// CreateProposal handles POST /api/v1/proposals. The optional format query
// parameter renders the proposal with one of the output formatters.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	var req models.ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.parser.ValidateInput(&req); err != nil {
		respondError(c, err)
		return
	}

	proposal, err := h.engine.Calculate(req)
	if err != nil {
		respondError(c, err)
		return
	}

	format := c.DefaultQuery("format", "json")
	if format == "json" {
		c.JSON(http.StatusOK, proposal)
		return
	}
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		abort(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unknown output format: "+format)
		return
	}
	data, err := formatter.Format(proposal)
	if err != nil {
		respondError(c, err)
		return
	}
	contentType, ok := formatContentTypes[formatter.Name()]
	if !ok {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, data)
}

// Decompose handles POST /api/v1/decompose
func (h *ProposalHandler) Decompose(c *gin.Context) {
	var req models.DecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.ConsumptionKwh.IsNegative() {
		respondError(c, domain.NewInvalidInput("consumptionKwh", "cannot be negative"))
		return
	}
	class, err := domain.ParseConsumerClass(req.ConsumerClass)
	if err != nil {
		respondError(c, err)
		return
	}
	year := req.Year
	if year == 0 {
		year = h.now().Year()
	}

	d, sub, err := h.engine.Decomposer.Decompose(calculation.DecompositionRequest{
		ConsumptionKwh: req.ConsumptionKwh,
		Distributor:    req.Distributor,
		ConsumerClass:  class,
		SurchargeLevel: domain.ParseSurchargeLevel(req.SurchargeLevel),
		Year:           year,
		Strict:         req.DisableFallback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.DecomposeResponse{
		Decomposition: d,
		Substitutions: []domain.Substitution{},
	}
	if sub != nil {
		resp.Substitutions = append(resp.Substitutions, *sub)
	}
	c.JSON(http.StatusOK, resp)
}

// GetIrradiance handles GET /api/v1/irradiance/:location
func (h *ProposalHandler) GetIrradiance(c *gin.Context) {
	strict := false
	if v := c.Query("strict"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondBindError(c, err)
			return
		}
		strict = parsed
	}

	profile, sub, err := h.engine.ResolveIrradiance(c.Param("location"), strict)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.IrradianceResponse{
		Profile:       profile,
		DailyKwhPerM2: profile.DailyKwhPerM2(),
		Estimated:     profile.IsEstimated(),
		Substitutions: []domain.Substitution{},
	}
	if sub != nil {
		resp.Substitutions = append(resp.Substitutions, *sub)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProposalHandler) now() time.Time {
	if h.engine.Now == nil {
		return time.Now()
	}
	return h.engine.Now()
}
