package handlers

import (
	"net/http"

	"bess-degradation/internal/api/models"
	"bess-degradation/internal/presets"

	"github.com/gin-gonic/gin"
)

// PresetHandler serves the manufacturer preset catalogue
type PresetHandler struct {
	catalogue *presets.Catalogue
}

func NewPresetHandler(cat *presets.Catalogue) *PresetHandler {
	if cat == nil {
		cat = presets.Default()
	}
	return &PresetHandler{catalogue: cat}
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, models.PresetsResponse{Presets: h.catalogue.List()})
}

// GetPreset handles GET /api/v1/presets/:id
func (h *PresetHandler) GetPreset(c *gin.Context) {
	p, err := h.catalogue.Lookup(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, newError("NOT_FOUND", err.Error(), nil))
		return
	}
	c.JSON(http.StatusOK, p)
}
