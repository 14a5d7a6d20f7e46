package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ertis-service/backend/internal/auth"
	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/geocode"
	"github.com/ertis-service/backend/internal/http/middleware"
	"github.com/ertis-service/backend/internal/service"
	"github.com/ertis-service/backend/internal/storage"
)

type Handler struct {
	Store     *db.Store
	Triage    *service.TriageService
	Ratings   *service.RatingService
	Notifier  *service.Notifier
	Geocoder  geocode.Geocoder
	Files     *storage.FileStore
	Issuer    auth.TokenIssuer
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	payload := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		payload["details"] = details
	}
	c.AbortWithStatusJSON(status, gin.H{"error": payload})
}

// writeStoreError maps the store's sentinel errors onto client statuses and
// hides internals behind a generic message otherwise.
func (h *Handler) writeStoreError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", notFoundMsg, nil)
	case errors.Is(err, db.ErrDuplicate):
		writeError(c, http.StatusConflict, "DUPLICATE", "Resource already exists", nil)
	default:
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("store error")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid id", nil)
		return 0, false
	}
	return id, true
}

func claims(c *gin.Context) (auth.Claims, bool) {
	cl, ok := middleware.GetClaims(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
	}
	return cl, ok
}
