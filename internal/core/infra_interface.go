package core

import (
	"context"

	"github.com/mentora-labs/mentora/internal/models"
)

// DbClient defines all persistence operations the ingestion and retrieval
// paths need. It abstracts Postgres/pgvector so higher layers never depend on
// a specific DB.
type DbClient interface {
	ListAdvisors(ctx context.Context) ([]models.Advisor, error)
	GetAdvisorByID(ctx context.Context, id string) (*models.Advisor, error)

	InsertDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByAdvisor(ctx context.Context, advisorID string) ([]models.Document, error)

	InsertChunk(ctx context.Context, chunk *models.DocumentChunk) error
	CountChunksByDocument(ctx context.Context, documentID string) (int, error)

	// MatchChunks invokes the store-side match_document_chunks function:
	// cosine similarity over an advisor's chunks, thresholded and limited.
	MatchChunks(ctx context.Context, queryVec []float32, advisorID string, threshold float64, limit int) ([]models.ChunkMatch, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage. Abstract
// so AWS can be replaced with MinIO, GCP, etc. The archive is write-only from
// this service's point of view; stored payloads are read back through their
// public URLs.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
}

// EmbeddingProvider turns one piece of text into a fixed-dimensionality
// vector. Implementations must request the reduced dimensionality explicitly
// on every call; the store's column width does not bend.
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
