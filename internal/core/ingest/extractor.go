package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/mentora-labs/mentora/internal/models"
)

// Sentinel errors callers branch on.
var (
	ErrMissingAdvisor = errors.New("missing advisor id")
	ErrUnknownAdvisor = errors.New("advisor not found")
	ErrMissingURL     = errors.New("missing url")
	ErrMissingFile    = errors.New("no file provided")
	ErrNoContent      = errors.New("no content found to ingest")
)

// Extraction is the normalized output of a content extractor. Title may be
// empty; the orchestrator applies the final fallback.
type Extraction struct {
	Text  string
	Title string
}

// Extractor turns one source descriptor into normalized plain text plus a
// derived title. Implementations exist per source type; failures abort the
// whole ingestion before anything is persisted.
type Extractor interface {
	Extract(ctx context.Context, src models.SourceDescriptor) (Extraction, error)
}

// sanitize strips NUL characters, which Postgres rejects in text columns.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// TextExtractor passes raw text through unchanged.
type TextExtractor struct{}

func (TextExtractor) Extract(_ context.Context, src models.SourceDescriptor) (Extraction, error) {
	return Extraction{Text: src.RawContent, Title: src.Title}, nil
}
