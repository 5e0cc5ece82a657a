package pgrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS meter_readings (
	meter_id TEXT        NOT NULL,
	read_at  TIMESTAMPTZ NOT NULL,
	reading  NUMERIC     NOT NULL
);
CREATE INDEX IF NOT EXISTS meter_readings_meter_id_idx ON meter_readings (meter_id, read_at);
`

var _ repo.ReadingRepository = (*Store)(nil)

// Store persists readings in the meter_readings table.
type Store struct {
	db *sql.DB
}

// Open connects to the database behind dsn through pgx, pings it within ctx and
// creates the readings table when it is missing. Close releases the pool.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres reading store: empty DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the readings table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Append inserts the readings in one transaction.
func (s *Store) Append(ctx context.Context, meterID string, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO meter_readings (meter_id, read_at, reading) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		if _, err := stmt.ExecContext(ctx, meterID, r.Time.UTC(), r.Amount.String()); err != nil {
			return fmt.Errorf("insert reading: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) List(ctx context.Context, meterID string) ([]domain.Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT read_at, reading::text FROM meter_readings WHERE meter_id = $1 ORDER BY read_at`, meterID)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []domain.Reading
	for rows.Next() {
		var (
			readAt time.Time
			amount string
		)
		if err := rows.Scan(&readAt, &amount); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		d, err := domain.NewDecimal(amount)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Reading{Time: readAt.UTC(), Amount: d})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	if len(out) == 0 {
		return nil, repo.ErrNotFound
	}
	return out, nil
}
