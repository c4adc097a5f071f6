package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/platform/config"
)

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := pub.Publish(context.Background(), Event{
		Type:       TypePaymentApproved,
		Key:        "NUM-1",
		OccurredAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payment.approved", entry["event_type"])
	assert.Equal(t, "NUM-1", entry["key"])
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	require.NoError(t, rec.Publish(ctx, Event{Type: TypePaymentApproved, Key: "a"}))
	require.NoError(t, rec.Publish(ctx, Event{Type: TypeReadingGenerated, Key: "a"}))

	assert.Len(t, rec.Events(), 2)
	assert.Len(t, rec.OfType(TypeReadingGenerated), 1)

	rec.FailWith(errors.New("broker down"))
	assert.Error(t, rec.Publish(ctx, Event{Type: TypeReadingDelivered}))
}

func TestEventEncoding(t *testing.T) {
	data, err := Event{
		Type:       TypeReadingGenerated,
		Key:        "NUM-1",
		Payload:    map[string]any{"life_path_number": 3},
		OccurredAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}.encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"reading.generated","key":"NUM-1","payload":{"life_path_number":3},"occurred_at":"2024-06-01T12:00:00Z"}`, string(data))
}

func TestNewSelectsBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	pub, err := New(context.Background(), config.Events{Backend: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, pub)

	_, err = New(context.Background(), config.Events{Backend: "carrier-pigeon"}, logger)
	assert.Error(t, err)

	_, err = New(context.Background(), config.Events{Backend: "nats"}, logger)
	assert.Error(t, err)
}

func TestNATSSubject(t *testing.T) {
	p := &NATSPublisher{prefix: "numerology"}
	assert.Equal(t, "numerology.payment.approved", p.Subject(TypePaymentApproved))

	p = &NATSPublisher{}
	assert.Equal(t, "reading.delivered", p.Subject(TypeReadingDelivered))
}
