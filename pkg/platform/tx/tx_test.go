package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInject(t *testing.T) {
	ctx := context.Background()

	_, ok := Active(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, Inject(ctx, nil), "nil transaction leaves the context alone")

	open := &sql.Tx{}
	got, ok := Active(Inject(ctx, open))
	assert.True(t, ok)
	assert.Same(t, open, got)
}
