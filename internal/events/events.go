// Package events fans order activity out to the live feed and Kafka.
package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeAttachmentAdded   = "attachment.added"
	TypeAttachmentDeleted = "attachment.deleted"
	TypePaymentStatus     = "payment.status"
)

// Event is one piece of order activity
type Event struct {
	Type    string    `json:"type"`
	OrderID uuid.UUID `json:"orderId"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// New stamps an event with the current time
func New(eventType string, orderID uuid.UUID, payload any) Event {
	return Event{Type: eventType, OrderID: orderID, At: time.Now().UTC(), Payload: payload}
}

// Publisher delivers events somewhere
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards events
type Nop struct{}

// Publish implements Publisher
func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout publishes to every publisher and joins their errors
type Fanout []Publisher

// Publish implements Publisher
func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes and logs a failure instead of returning it. Events are a
// side channel; callers never fail a request because of them.
func Emit(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish event",
			slog.String("type", event.Type),
			slog.String("order_id", event.OrderID.String()),
			slog.String("error", err.Error()),
		)
	}
}
