package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Platform-wide statistics
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} db.OverviewStats
// @Router /api/statistics/overview [get]
func (h *Handler) StatisticsOverview(c *gin.Context) {
	stats, err := h.Store.OverviewStatistics(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Per-employee statistics
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param id path int true "employee id"
// @Success 200 {object} db.EmployeeStats
// @Failure 404 {object} map[string]any
// @Router /api/statistics/employees/{id} [get]
func (h *Handler) StatisticsEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.Store.GetEmployee(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}
	stats, err := h.Store.EmployeeStatistics(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Open request counts by priority
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /api/statistics/priorities [get]
func (h *Handler) StatisticsPriorities(c *gin.Context) {
	counts, err := h.Store.RequestCountsByPriority(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, counts)
}
