package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/pkg/platform/sentinel"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "readings/NUM-1.pdf", Key("NUM-1"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, Key("NUM-1"))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	data := []byte("%PDF-1.3")
	require.NoError(t, s.Put(ctx, Key("NUM-1"), data))
	data[0] = 'X'

	got, err := s.Get(ctx, Key("NUM-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), got)
}
