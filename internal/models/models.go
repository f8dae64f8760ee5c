package models

import (
	"time"
)

// Source types accepted by the ingestion pipeline.
const (
	SourceText    = "text"
	SourceWeb     = "web"
	SourcePDF     = "pdf"
	SourceYouTube = "youtube"
)

// Advisor represents a persona that owns a knowledge base and a system prompt.
// Advisor lifecycle (creation, editing, avatars) is managed elsewhere; this
// core only reads advisors and attaches knowledge to them.
type Advisor struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	SystemPrompt string    `db:"system_prompt" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Document represents one ingested piece of content owned by an advisor.
// A row is created exactly once per successful extraction, before chunking,
// and is never mutated afterwards by this core.
type Document struct {
	ID          string    `db:"id" json:"id"`
	AdvisorID   string    `db:"advisor_id" json:"advisor_id"`
	Title       string    `db:"title" json:"title"`
	SourceURL   string    `db:"source_url" json:"source_url,omitempty"`
	StorageURL  string    `db:"storage_url" json:"storage_url,omitempty"`
	ContentType string    `db:"content_type" json:"content_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DocumentChunk represents one text chunk from a document together with its
// vector embedding. Chunks are insert-only; a chunk whose embedding call
// failed simply never exists.
type DocumentChunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	Content    string    `db:"content" json:"content"`
	Embedding  []float32 `db:"embedding" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ChunkMatch is one similarity-search hit returned by the store's
// match_document_chunks function.
type ChunkMatch struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// SourceDescriptor is the request-scoped input to ingestion. Exactly one of
// RawContent, URL or FileBytes is meaningful depending on SourceType. It is
// constructed per call and never persisted.
type SourceDescriptor struct {
	AdvisorID  string
	SourceType string
	URL        string
	Title      string
	RawContent string
	FileBytes  []byte
	FileName   string
}
