package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mentora-labs/mentora/internal/core"
	"github.com/mentora-labs/mentora/internal/core/ingest"
)

// ExtensionHandler serves the browser extension: batch ingestion across
// several advisors at once, plus the advisor list its picker shows.
type ExtensionHandler struct {
	db       core.DbClient
	ingestor *ingest.Ingestor
	workers  int
	logger   *slog.Logger
}

func NewExtensionHandler(db core.DbClient, ingestor *ingest.Ingestor, workers int, logger *slog.Logger) *ExtensionHandler {
	return &ExtensionHandler{db: db, ingestor: ingestor, workers: workers, logger: logger}
}

type batchRequest struct {
	AdvisorIDs []string           `json:"advisorIds"`
	Items      []ingest.BatchItem `json:"items"`
}

// BatchIngest handles POST /api/extension/ingest. The response is always
// HTTP 200 with a per-pair breakdown; clients must inspect the results list,
// not just the status code.
func (h *ExtensionHandler) BatchIngest(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.AdvisorIDs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one advisor required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "at least one item required")
		return
	}

	res := h.ingestor.IngestBatch(r.Context(), req.AdvisorIDs, req.Items, h.workers)
	h.logger.Info("batch ingest finished",
		"job_id", res.JobID, "queued", res.Queued, "completed", res.Completed, "successful", res.Successful)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"jobId":      res.JobID,
		"queued":     res.Queued,
		"completed":  res.Completed,
		"successful": res.Successful,
		"results":    res.Results,
	})
}

// Advisors handles GET /api/extension/advisors.
func (h *ExtensionHandler) Advisors(w http.ResponseWriter, r *http.Request) {
	advisors, err := h.db.ListAdvisors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, advisors)
}
