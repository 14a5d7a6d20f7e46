package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Notifications for the calling user
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	items, err := h.Store.ListNotificationsByUser(c.Request.Context(), cl.UserID)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "notification id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	notification, err := h.Store.GetNotification(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "Notification not found")
		return
	}
	if notification.UserID != cl.UserID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Not your notification", nil)
		return
	}
	if err := h.Store.MarkNotificationRead(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
