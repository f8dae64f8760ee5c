package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/mentora-labs/mentora/internal/core/ingest"
	"github.com/mentora-labs/mentora/internal/models"
)

const maxUploadBytes = 52 << 20

// IngestHandler accepts a single source (text, web page, PDF upload or
// YouTube URL) and runs it through the ingestion pipeline.
type IngestHandler struct {
	ingestor *ingest.Ingestor
	logger   *slog.Logger
}

func NewIngestHandler(ingestor *ingest.Ingestor, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{ingestor: ingestor, logger: logger}
}

// Ingest handles POST /api/ingest. The body is a multipart form carrying
// advisorId, type, and one of content/url/file depending on the type.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	src := models.SourceDescriptor{
		AdvisorID:  r.FormValue("advisorId"),
		SourceType: r.FormValue("type"),
		Title:      r.FormValue("title"),
		RawContent: r.FormValue("content"),
		URL:        r.FormValue("url"),
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "read file: "+readErr.Error())
			return
		}
		src.FileBytes = data
		src.FileName = header.Filename
	}

	result, err := h.ingestor.Ingest(r.Context(), src)
	if err != nil {
		h.logger.Error("ingestion failed",
			"advisor_id", src.AdvisorID, "source_type", src.SourceType, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"docId":   result.DocumentID,
		"chunks":  result.Chunks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
