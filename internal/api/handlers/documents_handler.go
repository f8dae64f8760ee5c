package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mentora-labs/mentora/internal/core"
)

// DocumentsHandler exposes the read side of an advisor's knowledge base: the
// documents attached to an advisor (with their chunk counts) and individual
// document lookups.
type DocumentsHandler struct {
	db     core.DbClient
	logger *slog.Logger
}

func NewDocumentsHandler(db core.DbClient, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{db: db, logger: logger}
}

type documentSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	SourceURL   string `json:"source_url,omitempty"`
	StorageURL  string `json:"storage_url,omitempty"`
	ContentType string `json:"content_type"`
	Chunks      int    `json:"chunks"`
}

// ListByAdvisor handles GET /api/advisors/{advisorID}/documents.
func (h *DocumentsHandler) ListByAdvisor(w http.ResponseWriter, r *http.Request) {
	advisorID := chi.URLParam(r, "advisorID")

	advisor, err := h.db.GetAdvisorByID(r.Context(), advisorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if advisor == nil {
		writeError(w, http.StatusNotFound, "advisor not found")
		return
	}

	docs, err := h.db.ListDocumentsByAdvisor(r.Context(), advisorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		n, err := h.db.CountChunksByDocument(r.Context(), d.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, documentSummary{
			ID:          d.ID,
			Title:       d.Title,
			SourceURL:   d.SourceURL,
			StorageURL:  d.StorageURL,
			ContentType: d.ContentType,
			Chunks:      n,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

// Get handles GET /api/documents/{documentID}.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.db.GetDocumentByID(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
