package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/pvgo/internal/api/models"
	"github.com/rgehrsitz/pvgo/internal/breakeven"
	"github.com/rgehrsitz/pvgo/internal/compare"
	"github.com/rgehrsitz/pvgo/internal/domain"
)

var kindStatus = map[domain.ErrorKind]struct {
	status int
	code   string
}{
	domain.KindInvalidInput:          {http.StatusBadRequest, "INVALID_INPUT"},
	domain.KindInvalidMargin:         {http.StatusBadRequest, "INVALID_MARGIN"},
	domain.KindUnresolvedLocation:    {http.StatusUnprocessableEntity, "UNRESOLVED_LOCATION"},
	domain.KindUnresolvedDistributor: {http.StatusUnprocessableEntity, "UNRESOLVED_DISTRIBUTOR"},
}

// respondError maps engine errors to a status code and error body
func respondError(c *gin.Context, err error) {
	var calcErr *domain.CalculationError
	if errors.As(err, &calcErr) {
		mapped, ok := kindStatus[calcErr.Kind]
		if !ok {
			mapped = kindStatus[domain.KindInvalidInput]
		}
		detail := models.ErrorDetail{Code: mapped.code, Message: err.Error()}
		if calcErr.Field != "" {
			detail.Details = map[string]interface{}{"field": calcErr.Field}
		}
		c.JSON(mapped.status, models.ErrorResponse{Error: detail})
		return
	}

	switch {
	case errors.Is(err, compare.ErrNoCoveringKit):
		abort(c, http.StatusUnprocessableEntity, "NO_MATCHING_KIT", err.Error())
		return
	case errors.Is(err, compare.ErrBaseKitNotFound):
		abort(c, http.StatusNotFound, "KIT_NOT_FOUND", err.Error())
		return
	}

	var beErr *breakeven.BreakEvenError
	if errors.As(err, &beErr) {
		if beErr.Operation == "validate_constraints" {
			abort(c, http.StatusBadRequest, "INVALID_CONSTRAINTS", err.Error())
		} else {
			abort(c, http.StatusUnprocessableEntity, "BREAK_EVEN_FAILED", err.Error())
		}
		return
	}

	abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

// respondBindError reports a malformed request body or query
func respondBindError(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

func abort(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
