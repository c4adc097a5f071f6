// Package events publishes domain events (payment approved, reading generated,
// reading delivered) to Kafka, NATS, or the process log.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a domain event.
type Type string

const (
	TypePaymentApproved  Type = "payment.approved"
	TypeReadingGenerated Type = "reading.generated"
	TypeReadingDelivered Type = "reading.delivered"
)

// Event is one published fact. Key is the checkout external reference so all
// events of one purchase land on the same partition.
type Event struct {
	Type       Type           `json:"type"`
	Key        string         `json:"key"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
