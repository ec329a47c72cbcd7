// Package events publishes ledger domain events to the message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"financebot/internal/models"
)

// Action is the kind of write that produced an event.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes a successful write to one of the ledger streams.
type Event struct {
	Type       string           `json:"type"`
	UserID     uint             `json:"userId"`
	EntryID    string           `json:"entryId"`
	Kind       models.EntryKind `json:"kind"`
	Amount     float64          `json:"amount"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewEvent builds an event for the given entry. Type doubles as the routing key,
// e.g. "expense.created".
func NewEvent(action Action, userID uint, ref models.EntryRef, amount float64, occurredAt time.Time) Event {
	return Event{
		Type:       string(ref.Kind) + "." + string(action),
		UserID:     userID,
		EntryID:    ref.String(),
		Kind:       ref.Kind,
		Amount:     amount,
		OccurredAt: occurredAt,
	}
}

// RoutingKey returns the broker routing key of the event.
func (e Event) RoutingKey() string {
	return e.Type
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
