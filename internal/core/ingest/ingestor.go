package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentora-labs/mentora/internal/core"
	"github.com/mentora-labs/mentora/internal/models"
)

// Config tunes the orchestrator.
//
// ChunkSize/ChunkOverlap: window parameters for Chunk.
// MaxDocumentChars:       cap on extracted text before chunking (0 = no cap);
//                         keeps one pathological page from generating an
//                         unbounded run of embedding calls.
// Bucket:                 object-store bucket for raw upload archiving.
type Config struct {
	ChunkSize        int
	ChunkOverlap     int
	MaxDocumentChars int
	Bucket           string
}

// Result reports a completed single-source ingestion. Chunks is the number of
// chunk rows actually persisted: ingestion aborts on the first failed
// embed/insert, so the count never overstates what the store holds.
type Result struct {
	DocumentID string `json:"docId"`
	Chunks     int    `json:"chunks"`
}

// Ingestor drives extract → sanitize → persist document → chunk → embed →
// persist chunks for one source descriptor.
//
// The chunk loop is strictly sequential. The embedding endpoint is quota- and
// rate-limited; the provider's limiter spaces calls out, and running chunks
// one at a time is what keeps a large document from burning the quota in one
// burst. Do not parallelize this loop without revisiting those limits.
type Ingestor struct {
	db         core.DbClient
	obj        core.ObjectClient // nil disables upload archiving
	embedder   core.EmbeddingProvider
	extractors map[string]Extractor
	cfg        Config
	logger     *slog.Logger
}

func NewIngestor(db core.DbClient, obj core.ObjectClient, embedder core.EmbeddingProvider, extractors map[string]Extractor, cfg Config, logger *slog.Logger) (*Ingestor, error) {
	// An unset pair means the defaults; an explicit overlap of 0 with a set
	// size is a valid configuration and stays as given.
	if cfg.ChunkSize == 0 && cfg.ChunkOverlap == 0 {
		cfg.ChunkSize = DefaultChunkSize
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	// Reject a degenerate size/overlap pair here rather than letting the
	// first ingest discover it after its document row is already inserted.
	if _, err := Chunk("", cfg.ChunkSize, cfg.ChunkOverlap); err != nil {
		return nil, fmt.Errorf("chunk config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		db:         db,
		obj:        obj,
		embedder:   embedder,
		extractors: extractors,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Ingest runs the full pipeline for one source. Extraction failures abort
// before any row is written; a failure inside the chunk loop leaves the
// document with the chunks persisted so far and reports how many made it.
func (i *Ingestor) Ingest(ctx context.Context, src models.SourceDescriptor) (Result, error) {
	if src.AdvisorID == "" {
		return Result{}, ErrMissingAdvisor
	}
	advisor, err := i.db.GetAdvisorByID(ctx, src.AdvisorID)
	if err != nil {
		return Result{}, fmt.Errorf("look up advisor: %w", err)
	}
	if advisor == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAdvisor, src.AdvisorID)
	}

	extractor, ok := i.extractors[src.SourceType]
	if !ok {
		return Result{}, fmt.Errorf("unsupported source type %q", src.SourceType)
	}

	extraction, err := extractor.Extract(ctx, src)
	if err != nil {
		return Result{}, fmt.Errorf("%s extraction: %w", src.SourceType, err)
	}

	text := sanitize(extraction.Text)
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrNoContent
	}
	if i.cfg.MaxDocumentChars > 0 {
		if runes := []rune(text); len(runes) > i.cfg.MaxDocumentChars {
			i.logger.Warn("document truncated",
				"source_type", src.SourceType, "chars", len(runes), "cap", i.cfg.MaxDocumentChars)
			text = string(runes[:i.cfg.MaxDocumentChars])
		}
	}

	title := sanitize(extraction.Title)
	if title == "" {
		title = "General Knowledge"
	}

	docID := uuid.NewString()

	// Archive the raw payload first so the document row can carry its
	// storage URL from the start.
	storageURL := ""
	if i.obj != nil && len(src.FileBytes) > 0 && i.cfg.Bucket != "" {
		key := fmt.Sprintf("%s/%s/%s", src.AdvisorID, docID, filepath.Base(src.FileName))
		url, upErr := i.obj.UploadFile(ctx, i.cfg.Bucket, key, src.FileBytes, "application/pdf")
		if upErr != nil {
			// Archiving is best-effort; the extracted text is already in hand.
			i.logger.Warn("upload archive failed", "key", key, "error", upErr)
		} else {
			storageURL = url
		}
	}

	doc := &models.Document{
		ID:          docID,
		AdvisorID:   src.AdvisorID,
		Title:       title,
		SourceURL:   src.URL,
		StorageURL:  storageURL,
		ContentType: src.SourceType,
		CreatedAt:   time.Now(),
	}
	if err := i.db.InsertDocument(ctx, doc); err != nil {
		return Result{}, fmt.Errorf("insert document: %w", err)
	}

	chunks, err := Chunk(text, i.cfg.ChunkSize, i.cfg.ChunkOverlap)
	if err != nil {
		return Result{}, err
	}

	// Sequential on purpose; see the type comment.
	for n, content := range chunks {
		if err := ctx.Err(); err != nil {
			return Result{DocumentID: docID, Chunks: n}, err
		}

		vec, err := i.embedder.EmbedText(ctx, content)
		if err != nil {
			return Result{DocumentID: docID, Chunks: n},
				fmt.Errorf("embed chunk %d/%d: %w", n+1, len(chunks), err)
		}

		row := &models.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			Content:    content,
			Embedding:  vec,
			CreatedAt:  time.Now(),
		}
		if err := i.db.InsertChunk(ctx, row); err != nil {
			return Result{DocumentID: docID, Chunks: n},
				fmt.Errorf("insert chunk %d/%d: %w", n+1, len(chunks), err)
		}
	}

	i.logger.Info("ingested document",
		"doc_id", docID, "advisor_id", src.AdvisorID, "source_type", src.SourceType, "chunks", len(chunks))

	return Result{DocumentID: docID, Chunks: len(chunks)}, nil
}
