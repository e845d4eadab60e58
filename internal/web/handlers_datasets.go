package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mergetab/mergetab/internal/logging"
	"github.com/mergetab/mergetab/internal/store"
	"github.com/mergetab/mergetab/internal/table"
)

// datasetResponse is the JSON shape for a single dataset.
type datasetResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Source    string      `json:"source"`
	RowCount  int         `json:"rowCount"`
	Columns   []string    `json:"columns"`
	CreatedAt time.Time   `json:"createdAt"`
	Rows      table.Table `json:"rows,omitempty"`
}

func summarize(d *store.Dataset) datasetResponse {
	return datasetResponse{
		ID:        d.ID,
		Name:      d.Name,
		Source:    d.Source,
		RowCount:  d.Table.Len(),
		Columns:   d.Table.Columns,
		CreatedAt: d.CreatedAt,
	}
}

// pasteRequest is the JSON body for creating a dataset from pasted text.
type pasteRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// handleCreateDataset ingests a new dataset. A multipart request carries a
// file upload (fields: file, optional name and sheet); a JSON request
// carries pasted text, which goes through the JSON-or-delimited sniff.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			writeError(w, http.StatusBadRequest, "file too large or invalid form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "no file provided")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file")
			return
		}

		d, err := s.service.UploadDataset(r.Context(), r.FormValue("name"), header.Filename, data, r.FormValue("sheet"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		logging.FromContext(r.Context()).Info("dataset created",
			"dataset_id", d.ID,
			"source", d.Source,
			"rows", d.Table.Len(),
		)
		writeStatusJSON(w, http.StatusCreated, summarize(d))
		return
	}

	var req pasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "no text provided")
		return
	}

	d, err := s.service.PasteDataset(r.Context(), req.Name, req.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("dataset created",
		"dataset_id", d.ID,
		"source", d.Source,
		"rows", d.Table.Len(),
	)
	writeStatusJSON(w, http.StatusCreated, summarize(d))
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListDatasets(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, map[string]any{"datasets": infos})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := datasetID(w, r)
	if !ok {
		return
	}

	d, err := s.service.GetDataset(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := summarize(d)
	resp.Rows = d.Table
	writeJSON(w, resp)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := datasetID(w, r)
	if !ok {
		return
	}

	if err := s.service.DeleteDataset(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportDataset streams a dataset as a CSV download. Missing and
// empty cells both serialize as empty text.
func (s *Server) handleExportDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := datasetID(w, r)
	if !ok {
		return
	}

	out, err := s.service.ExportDataset(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Name+".csv"))

	cw := csv.NewWriter(w)
	if err := cw.Write(out.Columns); err != nil {
		slog.Error("csv write error", "error", err)
		return
	}
	if err := cw.WriteAll(out.Rows); err != nil {
		slog.Error("csv write error", "error", err)
		return
	}
	cw.Flush()
}

// datasetID parses the datasetID URL parameter, writing a 400 on failure.
func datasetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "datasetID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dataset id")
		return uuid.UUID{}, false
	}
	return id, true
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeStatusJSON writes a JSON response with an explicit status code.
func writeStatusJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
