package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// mergeRequest selects two stored datasets and the key column to join on.
type mergeRequest struct {
	PrimaryID   string `json:"primaryId"`
	SecondaryID string `json:"secondaryId"`
	Key         string `json:"key"`
}

// handleMerge merges the secondary dataset into the primary one and returns
// the merged rows with per-cell change classifications. Nothing is stored:
// repeating the request recomputes the result from the source datasets.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	primaryID, err := uuid.Parse(req.PrimaryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid primary dataset id")
		return
	}
	secondaryID, err := uuid.Parse(req.SecondaryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid secondary dataset id")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		writeError(w, http.StatusBadRequest, "no merge key selected")
		return
	}

	out, err := s.service.MergeDatasets(r.Context(), primaryID, secondaryID, req.Key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, out)
}
