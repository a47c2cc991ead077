package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/pvgo/internal/api/models"
	"github.com/rgehrsitz/pvgo/internal/breakeven"
	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/config"
)

// BreakEvenHandler handles margin searches
type BreakEvenHandler struct {
	solver *breakeven.Solver
	parser *config.InputParser
}

// NewBreakEvenHandler creates a new break-even handler
func NewBreakEvenHandler(engine *calculation.ProposalEngine) *BreakEvenHandler {
	return &BreakEvenHandler{
		solver: breakeven.NewDefaultSolver(engine),
		parser: config.NewInputParser(),
	}
}

// Solve handles POST /api/v1/break-even. Without a goal threshold it
// returns the margin ladder over the requested payback horizons.
func (h *BreakEvenHandler) Solve(c *gin.Context) {
	var req models.BreakEvenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.parser.ValidateInput(&req.Input); err != nil {
		respondError(c, err)
		return
	}

	goal := req.Goal
	if goal == "" {
		goal = breakeven.GoalPayback
	}
	if goal == breakeven.GoalPayback && req.Constraints.TargetPaybackYears == nil {
		ladder, err := h.solver.SolveLadder(c.Request.Context(), req.Input, req.Horizons)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ladder)
		return
	}

	result, err := h.solver.Optimize(c.Request.Context(), breakeven.OptimizationRequest{
		Input:         req.Input,
		Goal:          goal,
		Constraints:   req.Constraints,
		MaxIterations: req.MaxIterations,
		Tolerance:     req.Tolerance,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
