package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ertis-service/backend/internal/models"
)

type failingNotifications struct{}

func (failingNotifications) InsertNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	return models.Notification{}, errors.New("insert failed")
}

func TestNotifierLifecycleMessages(t *testing.T) {
	inbox := &captureNotifications{}
	n := &Notifier{Store: inbox, Logger: zerolog.Nop()}
	ctx := context.Background()

	n.RequestAssigned(ctx, 7, 5, "Aidos Serik")
	n.RequestInProgress(ctx, 7, 5)
	n.RequestCompleted(ctx, 7, 5)
	reason := "solved it myself"
	n.RequestClosed(ctx, 7, 5, &reason)

	if len(inbox.items) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(inbox.items))
	}
	if inbox.items[0].Type != models.NotificationInfo {
		t.Fatalf("assigned should be info, got %s", inbox.items[0].Type)
	}
	if !strings.Contains(inbox.items[0].Message, "Aidos Serik") {
		t.Fatalf("assigned message should name the employee: %q", inbox.items[0].Message)
	}
	if inbox.items[2].Type != models.NotificationSuccess {
		t.Fatalf("completed should be success, got %s", inbox.items[2].Type)
	}
	if !strings.Contains(inbox.items[3].Message, reason) {
		t.Fatalf("close reason missing from message: %q", inbox.items[3].Message)
	}
	for _, item := range inbox.items {
		if item.UserID != 7 {
			t.Fatalf("notification for wrong user: %v", item)
		}
	}
}

func TestNotifierClosedWithoutReason(t *testing.T) {
	inbox := &captureNotifications{}
	n := &Notifier{Store: inbox, Logger: zerolog.Nop()}

	n.RequestClosed(context.Background(), 7, 5, nil)
	if len(inbox.items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(inbox.items))
	}
	if strings.Contains(inbox.items[0].Message, "Reason") {
		t.Fatalf("unexpected reason suffix: %q", inbox.items[0].Message)
	}
}

func TestNotifierSwallowsInsertFailures(t *testing.T) {
	n := &Notifier{Store: failingNotifications{}, Logger: zerolog.Nop()}
	// Must not panic or surface the error.
	n.RequestCompleted(context.Background(), 7, 5)
}

func TestStatusChangedLabels(t *testing.T) {
	inbox := &captureNotifications{}
	n := &Notifier{Store: inbox, Logger: zerolog.Nop()}

	n.StatusChanged(context.Background(), 7, 5, models.StatusInProgress)
	if len(inbox.items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(inbox.items))
	}
	if !strings.Contains(inbox.items[0].Message, "in progress") {
		t.Fatalf("expected human label, got %q", inbox.items[0].Message)
	}
}
