package contact

import (
	"context"
	"fmt"

	"cosmonumero/internal/reading/models"
	"cosmonumero/internal/storage"
)

// SQLStore persists contacts in PostgreSQL or SQLite.
type SQLStore struct {
	db *storage.DB
}

func NewSQL(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, c *models.Contact) error {
	query := s.db.Rebind(`
		INSERT INTO contacts (id, transaction_id, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := s.db.Conn(ctx).ExecContext(ctx, query,
		c.ID,
		c.TransactionID,
		c.Email,
		c.Phone,
		storage.ToMillis(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ListByTransactionID returns contacts oldest first.
func (s *SQLStore) ListByTransactionID(ctx context.Context, transactionID string) ([]models.Contact, error) {
	query := s.db.Rebind(`
		SELECT id, transaction_id, email, phone, created_at
		FROM contacts
		WHERE transaction_id = ?
		ORDER BY created_at, id
	`)
	rows, err := s.db.Conn(ctx).QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var (
			c         models.Contact
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.TransactionID, &c.Email, &c.Phone, &createdAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.CreatedAt = storage.FromMillis(createdAt)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}
