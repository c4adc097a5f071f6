package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cosmonumero/internal/numerology"
	"cosmonumero/internal/payment/models"
	"cosmonumero/internal/storage"
	"cosmonumero/pkg/platform/sentinel"
)

// SQLStore persists transactions in PostgreSQL or SQLite.
type SQLStore struct {
	db *storage.DB
}

func NewSQL(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectColumns = `id, external_reference, preference_id, payment_id, customer_name, birth_date,
	amount_cents, currency, description, status, created_at, updated_at`

func (s *SQLStore) Create(ctx context.Context, txn *models.Transaction) error {
	query := s.db.Rebind(`
		INSERT INTO transactions (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Conn(ctx).ExecContext(ctx, query,
		txn.ID,
		txn.ExternalReference,
		txn.PreferenceID,
		txn.PaymentID,
		txn.CustomerName,
		txn.BirthDate.String(),
		txn.AmountCents,
		txn.Currency,
		txn.Description,
		string(txn.Status),
		storage.ToMillis(txn.CreatedAt),
		storage.ToMillis(txn.UpdatedAt),
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("transaction %s: %w", txn.ExternalReference, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) FindByExternalReference(ctx context.Context, externalReference string) (*models.Transaction, error) {
	query := s.db.Rebind(`SELECT ` + selectColumns + ` FROM transactions WHERE external_reference = ?`)
	row := s.db.Conn(ctx).QueryRowContext(ctx, query, externalReference)

	var (
		txn                  models.Transaction
		birthDate, status    string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&txn.ID,
		&txn.ExternalReference,
		&txn.PreferenceID,
		&txn.PaymentID,
		&txn.CustomerName,
		&birthDate,
		&txn.AmountCents,
		&txn.Currency,
		&txn.Description,
		&status,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", externalReference, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select transaction: %w", err)
	}

	bd, err := numerology.ParseBirthDate(birthDate)
	if err != nil {
		return nil, fmt.Errorf("decode birth date of transaction %s: %w", externalReference, err)
	}
	txn.BirthDate = bd
	txn.Status = models.Status(status)
	txn.CreatedAt = storage.FromMillis(createdAt)
	txn.UpdatedAt = storage.FromMillis(updatedAt)
	return &txn, nil
}

// MarkApproved records the approving payment. A transaction that is already
// approved keeps its original payment id.
func (s *SQLStore) MarkApproved(ctx context.Context, externalReference, paymentID string, at time.Time) error {
	query := s.db.Rebind(`
		UPDATE transactions
		SET status = ?, payment_id = ?, updated_at = ?
		WHERE external_reference = ? AND status <> ?
	`)
	res, err := s.db.Conn(ctx).ExecContext(ctx, query,
		string(models.StatusApproved),
		paymentID,
		storage.ToMillis(at),
		externalReference,
		string(models.StatusApproved),
	)
	if err != nil {
		return fmt.Errorf("approve transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("approve transaction: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// zero rows: either already approved or missing
	if _, err := s.FindByExternalReference(ctx, externalReference); err != nil {
		return err
	}
	return nil
}
