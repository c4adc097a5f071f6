package statuscache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/payment/models"
	"cosmonumero/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := NewInMemory(time.Hour)
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "NUM-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.Set(ctx, "NUM-1", models.CachedStatus{PaymentID: "42", Status: models.StatusApproved, UpdatedAt: now}))

	got, err := store.Get(ctx, "NUM-1")
	require.NoError(t, err)
	assert.Equal(t, "42", got.PaymentID)
	assert.Equal(t, models.StatusApproved, got.Status)

	now = now.Add(time.Hour)
	_, err = store.Get(ctx, "NUM-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "entry expires after ttl")
}
