package handlers

import (
	"errors"
	"net/http"

	"bess-degradation/internal/api/models"
	"bess-degradation/internal/model"
	"bess-degradation/internal/presets"
	"bess-degradation/internal/store"

	"github.com/gin-gonic/gin"
)

// errorResponse maps domain errors onto HTTP status codes and error codes.
func errorResponse(err error) (int, models.ErrorResponse) {
	var (
		ve *model.ValidationError
		ce *model.ComputationError
	)
	switch {
	case errors.As(err, &ve):
		details := map[string]interface{}{
			"field": ve.Field,
			"value": ve.Value,
			"min":   ve.Min,
			"max":   ve.Max,
		}
		if ve.Hint != "" {
			details["hint"] = ve.Hint
		}
		return http.StatusBadRequest, newError("INVALID_CONFIG", err.Error(), details)
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, newError("INVALID_CONFIG", err.Error(), nil)
	case errors.Is(err, presets.ErrUnknownPreset):
		return http.StatusBadRequest, newError("UNKNOWN_PRESET", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, newError("NOT_FOUND", err.Error(), nil)
	case errors.As(err, &ce):
		return http.StatusInternalServerError, newError("COMPUTATION_ERROR", err.Error(), map[string]interface{}{
			"year":     ce.Year,
			"quantity": ce.Quantity,
		})
	default:
		return http.StatusInternalServerError, newError("INTERNAL_ERROR", err.Error(), nil)
	}
}

func newError(code, msg string, details map[string]interface{}) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
			Details: details,
		},
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, newError("INVALID_REQUEST", err.Error(), nil))
}
