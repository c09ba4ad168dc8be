package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

// requireActor rejects anonymous calls.
func requireActor(actor *models.User) error {
	if actor == nil || actor.ID == 0 {
		return ErrUnauthorized
	}
	return nil
}

// requireStaff rejects callers that are not admin or head.
func requireStaff(actor *models.User, resource string, resourceID uint, action string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return NewPermissionError(actor.ID, resourceID, resource, action, "admin or head role required")
	}
	return nil
}

// lookupError turns a repository miss into NOT_FOUND and wraps anything else.
func lookupError(err error, resource string) error {
	if repositories.IsNotFoundError(err) {
		return newNotFound(resource)
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}

// publishEvents delivers events after commit. Failures are logged only.
func publishEvents(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, evts ...*events.Event) {
	if publisher == nil || len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Error("Failed to publish events", "error", err, "count", len(evts), "first_type", evts[0].Type)
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
