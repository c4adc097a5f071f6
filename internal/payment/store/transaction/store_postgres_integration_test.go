//go:build integration

package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"cosmonumero/internal/payment/ports"
	"cosmonumero/internal/storage"
	"cosmonumero/pkg/platform/sentinel"
	"cosmonumero/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.NewPostgresContainer(t)
	db := storage.New(pg.DB, storage.DialectPostgres)
	require.NoError(t, db.Migrate(context.Background()))

	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) ports.TransactionStore {
		require.NoError(t, pg.Truncate(context.Background(), "contacts", "readings", "transactions"))
		return NewSQL(db)
	}})

	t.Run("approval inside rolled back transaction is discarded", func(t *testing.T) {
		require.NoError(t, pg.Truncate(context.Background(), "contacts", "readings", "transactions"))
		ctx := context.Background()
		store := NewSQL(db)
		require.NoError(t, store.Create(ctx, newTransaction("NUM-TX")))

		err := db.WithTx(ctx, func(ctx context.Context) error {
			if err := store.MarkApproved(ctx, "NUM-TX", "9", time.Now()); err != nil {
				return err
			}
			return sentinel.ErrInvalidState
		})
		require.ErrorIs(t, err, sentinel.ErrInvalidState)

		got, err := store.FindByExternalReference(ctx, "NUM-TX")
		require.NoError(t, err)
		require.False(t, got.IsApproved())
	})
}
