// Package store persists uploaded datasets so a merge can reference two
// prior uploads by ID. Only source datasets are stored: merged tables and
// cell classifications are derived values, recomputed on demand, and never
// persisted.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mergetab/mergetab/internal/table"
)

// ErrNotFound is returned when no dataset exists for the requested ID.
var ErrNotFound = errors.New("dataset not found")

// Dataset is a normalized table plus its upload metadata.
type Dataset struct {
	ID        uuid.UUID
	Name      string
	Source    string // original file name, or "paste"
	CreatedAt time.Time
	Table     table.Table
}

// Info is the listing view of a dataset, without its rows.
type Info struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	RowCount  int       `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the dataset persistence boundary. Implementations must treat
// saved tables as immutable values.
type Store interface {
	Save(ctx context.Context, d *Dataset) error
	Get(ctx context.Context, id uuid.UUID) (*Dataset, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
