//go:build integration

package archive

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"cosmonumero/internal/platform/config"
	"cosmonumero/pkg/platform/sentinel"
)

func TestMinIOStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	store, err := NewMinIOStore(ctx, config.ObjectStore{
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "readings",
	})
	require.NoError(t, err)
	require.NoError(t, store.Health(ctx))

	require.NoError(t, store.Put(ctx, Key("NUM-1"), []byte("%PDF-1.3 test")))
	got, err := store.Get(ctx, Key("NUM-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3 test"), got)

	_, err = store.Get(ctx, Key("NUM-404"))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
