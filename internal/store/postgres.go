package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mergetab/mergetab/internal/normalize"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// schema creates the single table this service needs. Rows are stored as a
// JSONB array of objects in the table's canonical JSON encoding; column
// order lives in a separate array because JSONB does not preserve object
// key order.
const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    id         uuid PRIMARY KEY,
    name       text NOT NULL,
    source     text NOT NULL,
    columns    text[] NOT NULL,
    rows       jsonb NOT NULL,
    row_count  integer NOT NULL,
    created_at timestamptz NOT NULL
)`

// Postgres is the pgx-backed Store.
type Postgres struct {
	db DBTX
}

// NewPostgres creates a Store on an existing connection pool.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the datasets table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, d *Dataset) error {
	rows, err := json.Marshal(d.Table)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO datasets (id, name, source, columns, rows, row_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Name, d.Source, d.Table.Columns, rows, d.Table.Len(), d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*Dataset, error) {
	var (
		d       Dataset
		columns []string
		raw     []byte
		created time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT name, source, columns, rows, created_at FROM datasets WHERE id = $1`,
		id,
	).Scan(&d.Name, &d.Source, &columns, &raw, &created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	// The stored encoding is the canonical JSON form, so decoding reuses
	// the normalizer's JSON path; coercion is the identity on canonical
	// content. Column order comes from the columns array.
	t, err := normalize.Normalize(normalize.JSON(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode stored rows: %w", err)
	}
	t.Columns = columns

	d.ID = id
	d.CreatedAt = created
	d.Table = t
	return &d, nil
}

func (s *Postgres) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, source, row_count, created_at FROM datasets ORDER BY created_at DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.ID, &info.Name, &info.Source, &info.RowCount, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return infos, nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
