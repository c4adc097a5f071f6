package contact

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/numerology"
	paymentModels "cosmonumero/internal/payment/models"
	"cosmonumero/internal/payment/store/transaction"
	"cosmonumero/internal/platform/config"
	"cosmonumero/internal/reading/models"
	"cosmonumero/internal/storage"
)

type contactStore interface {
	Create(ctx context.Context, c *models.Contact) error
	ListByTransactionID(ctx context.Context, transactionID string) ([]models.Contact, error)
}

func TestContactStores(t *testing.T) {
	stores := map[string]func(t *testing.T) contactStore{
		"memory": func(*testing.T) contactStore { return NewInMemory() },
		"sqlite": func(t *testing.T) contactStore {
			ctx := context.Background()
			db, err := storage.Open(ctx, config.Database{
				Driver: "sqlite",
				DSN:    filepath.Join(t.TempDir(), "numerology.db"),
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			bd, _ := numerology.NewBirthDate(1990, 5, 15)
			now := time.Now()
			require.NoError(t, transaction.NewSQL(db).Create(ctx, &paymentModels.Transaction{
				ID: "txn-1", ExternalReference: "NUM-1", CustomerName: "Maria Silva", BirthDate: bd,
				AmountCents: 2990, Currency: "BRL", Description: "d", Status: paymentModels.StatusApproved,
				CreatedAt: now, UpdatedAt: now,
			}))
			return NewSQL(db)
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			first := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

			require.NoError(t, store.Create(ctx, &models.Contact{ID: "c1", TransactionID: "txn-1", Email: "maria@example.com", CreatedAt: first}))
			require.NoError(t, store.Create(ctx, &models.Contact{ID: "c2", TransactionID: "txn-1", Email: "maria@example.com", Phone: "+55 11 99999-0000", CreatedAt: first.Add(time.Minute)}))

			got, err := store.ListByTransactionID(ctx, "txn-1")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "c1", got[0].ID)
			assert.Equal(t, "+55 11 99999-0000", got[1].Phone)
			assert.True(t, got[1].CreatedAt.Equal(first.Add(time.Minute)))

			none, err := store.ListByTransactionID(ctx, "txn-2")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}
