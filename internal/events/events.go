// Package events publishes domain events about reservations and devices.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ReservationCreated     EventType = "reservation.created"
	ReservationUpdated     EventType = "reservation.updated"
	ReservationApproved    EventType = "reservation.approved"
	ReservationRejected    EventType = "reservation.rejected"
	ReservationReturned    EventType = "reservation.returned"
	ReservationResubmitted EventType = "reservation.resubmitted"
	ReservationCancelled   EventType = "reservation.cancelled"
	ReservationPaid        EventType = "reservation.paid"
	ReservationWaived      EventType = "reservation.waived"
	ReservationActivated   EventType = "reservation.activated"
	ReservationBorrowed    EventType = "reservation.borrowed"
	ReservationCompleted   EventType = "reservation.completed"
	ReservationRefunded    EventType = "reservation.refunded"
	ReservationDeleted     EventType = "reservation.deleted"

	DeviceStatusChanged EventType = "device.status_changed"
)

const (
	eventSource  = "lab-reservation-service"
	eventVersion = "1.0"
)

// Event is the envelope written to the message bus.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func NewEvent(t EventType, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, events ...*Event) error
	Close() error
}

// ReservationEventData is the payload of reservation.* events.
type ReservationEventData struct {
	ReservationID uint   `json:"reservation_id"`
	DeviceID      uint   `json:"device_id"`
	UserID        uint   `json:"user_id"`
	ActorID       uint   `json:"actor_id"`
	FromStatus    string `json:"from_status,omitempty"`
	ToStatus      string `json:"to_status"`
	CurrentStep   string `json:"current_step,omitempty"`
	PaymentStatus string `json:"payment_status"`
}

// DeviceEventData is the payload of device.* events.
type DeviceEventData struct {
	DeviceID   uint   `json:"device_id"`
	DeviceNo   string `json:"device_no"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    uint   `json:"actor_id"`
}
