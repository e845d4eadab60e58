// Package core provides the business logic for dataset ingestion and
// merging. This package has no UI dependencies and can be used by any
// frontend.
package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mergetab/mergetab/internal/export"
	"github.com/mergetab/mergetab/internal/ingest"
	"github.com/mergetab/mergetab/internal/merge"
	"github.com/mergetab/mergetab/internal/normalize"
	"github.com/mergetab/mergetab/internal/store"
	"github.com/mergetab/mergetab/internal/table"
)

// Service orchestrates upload -> normalize -> store and load -> merge ->
// classify. A failed normalize or merge never touches stored datasets.
type Service struct {
	store store.Store
}

// NewService creates a Service on the given dataset store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// UploadDataset normalizes an uploaded file and saves it as a new dataset.
// The format is detected from the file name with a content-sniff fallback;
// sheet selects an XLSX worksheet by name, first sheet when empty. When
// name is empty the file's base name (without extension) is used.
func (s *Service) UploadDataset(ctx context.Context, name, fileName string, data []byte, sheet string) (*store.Dataset, error) {
	in, err := ingest.ReadFile(fileName, data, sheet)
	if err != nil {
		return nil, err
	}
	t, err := normalize.Normalize(in)
	if err != nil {
		return nil, err
	}

	if name == "" {
		base := filepath.Base(fileName)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	d := &store.Dataset{
		ID:        uuid.New(),
		Name:      name,
		Source:    filepath.Base(fileName),
		CreatedAt: time.Now().UTC(),
		Table:     t,
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	return d, nil
}

// PasteDataset normalizes freeform pasted text and saves it as a new
// dataset. The JSON-or-delimited sniff happens inside the normalizer's
// pasted-input path.
func (s *Service) PasteDataset(ctx context.Context, name, text string) (*store.Dataset, error) {
	t, err := normalize.Normalize(normalize.Pasted(text))
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = "pasted data"
	}

	d := &store.Dataset{
		ID:        uuid.New(),
		Name:      name,
		Source:    "paste",
		CreatedAt: time.Now().UTC(),
		Table:     t,
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	return d, nil
}

// GetDataset loads a dataset by ID.
func (s *Service) GetDataset(ctx context.Context, id uuid.UUID) (*store.Dataset, error) {
	return s.store.Get(ctx, id)
}

// ListDatasets returns dataset summaries, newest first.
func (s *Service) ListDatasets(ctx context.Context) ([]store.Info, error) {
	return s.store.List(ctx)
}

// DeleteDataset removes a dataset by ID.
func (s *Service) DeleteDataset(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// MergeOutput is the response shape for a merge: the merged table, its
// stable header list, and the non-unchanged cell classifications per row.
// It is derived on every call and never persisted.
type MergeOutput struct {
	PrimaryID   uuid.UUID `json:"primaryId"`
	SecondaryID uuid.UUID `json:"secondaryId"`
	Key         string    `json:"key"`
	Columns     []string  `json:"columns"`
	// Rows marshals as a JSON array of objects in canonical form.
	Rows table.Table `json:"rows"`
	// Changes holds, per merged row, a column -> "added"/"revised" map.
	// Unchanged cells are omitted.
	Changes []map[string]string `json:"changes"`
}

// MergeDatasets merges the secondary dataset into the primary one on the
// given key column and classifies every merged cell against the sources.
func (s *Service) MergeDatasets(ctx context.Context, primaryID, secondaryID uuid.UUID, key string) (*MergeOutput, error) {
	primary, err := s.store.Get(ctx, primaryID)
	if err != nil {
		return nil, fmt.Errorf("primary dataset: %w", err)
	}
	secondary, err := s.store.Get(ctx, secondaryID)
	if err != nil {
		return nil, fmt.Errorf("secondary dataset: %w", err)
	}

	key = strings.ToLower(strings.TrimSpace(key))
	res, err := merge.Merge(primary.Table, secondary.Table, key)
	if err != nil {
		return nil, err
	}
	cells := merge.Classify(primary.Table, secondary.Table, key, res.Table)

	changes := make([]map[string]string, res.Table.Len())
	for i := range changes {
		changes[i] = make(map[string]string)
	}
	for ref, c := range cells {
		if c == merge.Unchanged {
			continue
		}
		changes[ref.Row][ref.Column] = c.String()
	}

	return &MergeOutput{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Key:         key,
		Columns:     res.Table.Columns,
		Rows:        res.Table,
		Changes:     changes,
	}, nil
}

// ExportOutput is a dataset projected to flat rows for serialization.
type ExportOutput struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ExportDataset projects a dataset against its full ordered column list,
// rendering missing and empty cells as empty text.
func (s *Service) ExportDataset(ctx context.Context, id uuid.UUID) (*ExportOutput, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := table.AllColumns(d.Table)
	return &ExportOutput{
		Name:    d.Name,
		Columns: columns,
		Rows:    export.Project(d.Table, columns),
	}, nil
}
