package reading

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
	"cosmonumero/internal/reading/models"
	"cosmonumero/internal/storage"
	"cosmonumero/pkg/platform/sentinel"
)

// SQLStore persists readings in PostgreSQL or SQLite. The narrative is kept
// as a JSON document next to its source.
type SQLStore struct {
	db *storage.DB
}

func NewSQL(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, r *models.Reading) error {
	narrative, err := json.Marshal(r.Narrative)
	if err != nil {
		return fmt.Errorf("encode narrative: %w", err)
	}
	query := s.db.Rebind(`
		INSERT INTO readings (id, transaction_id, full_name, birth_date, evaluation_year,
			life_path_number, destiny_number, personal_year_number, narrative, narrative_source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = s.db.Conn(ctx).ExecContext(ctx, query,
		r.ID,
		r.TransactionID,
		r.FullName,
		r.BirthDate.String(),
		r.EvaluationYear,
		r.Result.LifePathNumber,
		r.Result.DestinyNumber,
		r.Result.PersonalYearNumber,
		string(narrative),
		string(r.NarrativeSource),
		storage.ToMillis(r.CreatedAt),
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("reading for transaction %s: %w", r.TransactionID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (s *SQLStore) FindByTransactionID(ctx context.Context, transactionID string) (*models.Reading, error) {
	query := s.db.Rebind(`
		SELECT r.id, r.transaction_id, t.external_reference, r.full_name, r.birth_date, r.evaluation_year,
			r.life_path_number, r.destiny_number, r.personal_year_number, r.narrative, r.narrative_source, r.created_at
		FROM readings r
		JOIN transactions t ON t.id = r.transaction_id
		WHERE r.transaction_id = ?
	`)
	var (
		r                    models.Reading
		birthDate, narrative string
		source               string
		createdAt            int64
	)
	err := s.db.Conn(ctx).QueryRowContext(ctx, query, transactionID).Scan(
		&r.ID,
		&r.TransactionID,
		&r.ExternalReference,
		&r.FullName,
		&birthDate,
		&r.EvaluationYear,
		&r.Result.LifePathNumber,
		&r.Result.DestinyNumber,
		&r.Result.PersonalYearNumber,
		&narrative,
		&source,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading for transaction %s: %w", transactionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select reading: %w", err)
	}

	bd, err := numerology.ParseBirthDate(birthDate)
	if err != nil {
		return nil, fmt.Errorf("decode birth date of reading %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(narrative), &r.Narrative); err != nil {
		return nil, fmt.Errorf("decode narrative of reading %s: %w", r.ID, err)
	}
	r.BirthDate = bd
	r.NarrativeSource = interpretation.Source(source)
	r.CreatedAt = storage.FromMillis(createdAt)
	return &r, nil
}
