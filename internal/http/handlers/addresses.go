package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/geocode"
)

// @Summary Address suggestions
// @Tags addresses
// @Produce json
// @Param q query string true "partial address, at least 3 characters"
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/addresses/suggest [get]
func (h *Handler) SuggestAddresses(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len([]rune(q)) < 3 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "q must be at least 3 characters", nil)
		return
	}
	items, err := h.Geocoder.Suggest(c.Request.Context(), q)
	if err != nil {
		h.writeGeocodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Resolve an address to coordinates
// @Tags addresses
// @Produce json
// @Param address query string true "full address, at least 5 characters"
// @Success 200 {object} geocode.Suggestion
// @Failure 404 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/addresses/geocode [get]
func (h *Handler) GeocodeAddress(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if len([]rune(address)) < 5 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "address must be at least 5 characters", nil)
		return
	}
	result, err := h.Geocoder.Geocode(c.Request.Context(), address)
	if err != nil {
		h.writeGeocodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Provider outages and a missing API key both surface as 503: the client can
// fall back to free-text addresses either way.
func (h *Handler) writeGeocodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Address not found", nil)
	case errors.Is(err, geocode.ErrUnconfigured):
		writeError(c, http.StatusServiceUnavailable, "GEOCODER_UNAVAILABLE", "Address service is not configured", nil)
	default:
		h.Logger.Error().Err(err).Msg("geocoder error")
		writeError(c, http.StatusServiceUnavailable, "GEOCODER_UNAVAILABLE", "Address service is unavailable", nil)
	}
}
