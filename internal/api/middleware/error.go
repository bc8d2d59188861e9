package middleware

import (
	"fmt"
	"net/http"

	"bess-degradation/internal/api/models"
	"bess-degradation/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers panics and answers with a JSON error.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		} else if err, ok := recovered.(error); ok {
			msg = fmt.Sprintf("internal error: %v", err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: msg,
			},
		})
	})
}
