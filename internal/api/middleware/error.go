package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/pvgo/internal/api/models"
)

// ErrorHandler middleware turns panics into a JSON internal error
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
