package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"cosmonumero/internal/platform/config"
)

type StorageSuite struct {
	suite.Suite
	db *DB
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	dsn := filepath.Join(s.T().TempDir(), "numerology.db")
	db, err := Open(context.Background(), config.Database{Driver: "sqlite", DSN: dsn})
	s.Require().NoError(err)
	s.db = db
}

func (s *StorageSuite) TearDownTest() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *StorageSuite) TestMigrateIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.db.Migrate(ctx))

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestUniqueViolation() {
	ctx := context.Background()
	insert := `INSERT INTO transactions (id, external_reference, customer_name, birth_date, amount_cents, currency, description, status, created_at, updated_at)
		VALUES (?, ?, 'Ana', '1990-05-15', 2990, 'BRL', 'Leitura', 'pending', 0, 0)`

	_, err := s.db.ExecContext(ctx, s.db.Rebind(insert), "t1", "NUM-1")
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, s.db.Rebind(insert), "t2", "NUM-1")
	s.Require().Error(err)
	s.True(IsUniqueViolation(err))
}

func (s *StorageSuite) TestWithTxRollsBack() {
	ctx := context.Background()
	insert := `INSERT INTO transactions (id, external_reference, customer_name, birth_date, amount_cents, currency, description, status, created_at, updated_at)
		VALUES (?, ?, 'Ana', '1990-05-15', 2990, 'BRL', 'Leitura', 'pending', 0, 0)`

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.db.Conn(ctx).ExecContext(ctx, insert, "t1", "NUM-1"); err != nil {
			return err
		}
		_, err := s.db.Conn(ctx).ExecContext(ctx, insert, "t2", "NUM-1")
		return err
	})
	s.Require().Error(err)

	var count int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count))
	s.Zero(count)
}

func TestRebind(t *testing.T) {
	pg := New(nil, DialectPostgres)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.Rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	assert.Equal(t, "SELECT '?' FROM t WHERE a = $1", pg.Rebind("SELECT '?' FROM t WHERE a = ?"))

	lite := New(nil, DialectSQLite)
	assert.Equal(t, "SELECT ? FROM t", lite.Rebind("SELECT ? FROM t"))
}

func TestMillisRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 30, 15, 123_000_000, time.FixedZone("BRT", -3*3600))
	got := FromMillis(ToMillis(now))
	assert.True(t, now.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Database{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
}
