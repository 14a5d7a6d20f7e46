package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ertis-service/backend/internal/models"
)

type NotificationStore interface {
	InsertNotification(ctx context.Context, n models.Notification) (models.Notification, error)
}

// Notifier fans status-change messages out to the affected user's inbox.
// Delivery is best-effort: insert failures are logged and swallowed.
type Notifier struct {
	Store  NotificationStore
	Logger zerolog.Logger
}

func (n *Notifier) send(ctx context.Context, userID int64, title, message string, typ models.NotificationType) {
	_, err := n.Store.InsertNotification(ctx, models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
	if err != nil {
		n.Logger.Error().Err(err).Int64("user_id", userID).Str("title", title).Msg("notification insert failed")
	}
}

func (n *Notifier) RequestAssigned(ctx context.Context, userID, requestID int64, employeeName string) {
	n.send(ctx, userID,
		"Request assigned",
		fmt.Sprintf("Your request #%d has been assigned to %s. The problem will be resolved soon.", requestID, employeeName),
		models.NotificationInfo)
}

func (n *Notifier) RequestInProgress(ctx context.Context, userID, requestID int64) {
	n.send(ctx, userID,
		"Work started",
		fmt.Sprintf("A technician has started working on your request #%d.", requestID),
		models.NotificationInfo)
}

func (n *Notifier) RequestCompleted(ctx context.Context, userID, requestID int64) {
	n.send(ctx, userID,
		"Request completed",
		fmt.Sprintf("Your request #%d has been completed. Please rate the technician's work.", requestID),
		models.NotificationSuccess)
}

func (n *Notifier) RequestClosed(ctx context.Context, userID, requestID int64, reason *string) {
	message := fmt.Sprintf("Your request #%d has been closed.", requestID)
	if reason != nil && *reason != "" {
		message += " Reason: " + *reason
	}
	n.send(ctx, userID, "Request closed", message, models.NotificationInfo)
}

var statusLabels = map[models.RequestStatus]string{
	models.StatusPending:    "pending",
	models.StatusAssigned:   "assigned",
	models.StatusInProgress: "in progress",
	models.StatusCompleted:  "completed",
	models.StatusClosed:     "closed",
}

// StatusChanged is the generic fallback for transitions without a dedicated
// message.
func (n *Notifier) StatusChanged(ctx context.Context, userID, requestID int64, status models.RequestStatus) {
	label, ok := statusLabels[status]
	if !ok {
		label = string(status)
	}
	n.send(ctx, userID,
		"Request status changed",
		fmt.Sprintf("The status of your request #%d changed to: %s.", requestID, label),
		models.NotificationInfo)
}
