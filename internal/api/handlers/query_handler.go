package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mentora-labs/mentora/internal/core"
)

// QueryHandler retrieves the evidentiary context for a question: it embeds
// the query and returns the advisor's most similar chunks. The conversational
// model call that consumes these chunks lives outside this service.
type QueryHandler struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	logger   *slog.Logger
}

func NewQueryHandler(db core.DbClient, embedder core.EmbeddingProvider, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{db: db, embedder: embedder, logger: logger}
}

type queryRequest struct {
	AdvisorID string  `json:"advisorId"`
	Question  string  `json:"question"`
	Threshold float64 `json:"threshold,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// Query handles POST /api/query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AdvisorID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "advisorId and question are required")
		return
	}
	if req.Threshold <= 0 {
		req.Threshold = 0.5
	}
	if req.Limit <= 0 || req.Limit > 50 {
		req.Limit = 5
	}

	vec, err := h.embedder.EmbedText(r.Context(), req.Question)
	if err != nil {
		h.logger.Error("query embedding failed", "advisor_id", req.AdvisorID, "error", err)
		writeError(w, http.StatusInternalServerError, "embedding failed: "+err.Error())
		return
	}

	matches, err := h.db.MatchChunks(r.Context(), vec, req.AdvisorID, req.Threshold, req.Limit)
	if err != nil {
		h.logger.Error("chunk match failed", "advisor_id", req.AdvisorID, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
	})
}
