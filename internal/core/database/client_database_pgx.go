package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mentora-labs/mentora/internal/config"
	"github.com/mentora-labs/mentora/internal/core"
	"github.com/mentora-labs/mentora/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn := cfg.DatabaseURL
	if cfg.SslCertPath != "" {
		if _, err := os.Stat(cfg.SslCertPath); err != nil {
			return nil, fmt.Errorf("ssl cert not accessible at %q: %w", cfg.SslCertPath, err)
		}
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", cfg.SslCertPath)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Advisors are read-only in this core: their lifecycle belongs to the app
// surface, the ingestion pipeline only attaches knowledge to them.

func (c *DatabaseClient) ListAdvisors(ctx context.Context) ([]models.Advisor, error) {
	const q = `
		SELECT id, name, description, system_prompt, created_at
		FROM advisors
		ORDER BY created_at ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Advisor
	for rows.Next() {
		var a models.Advisor
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.SystemPrompt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) GetAdvisorByID(ctx context.Context, id string) (*models.Advisor, error) {
	const q = `
		SELECT id, name, description, system_prompt, created_at
		FROM advisors WHERE id = $1
	`
	var a models.Advisor
	err := c.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Description, &a.SystemPrompt, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *DatabaseClient) InsertDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	const q = `
		INSERT INTO documents
			(id, advisor_id, title, source_url, storage_url, content_type, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		doc.ID, doc.AdvisorID, doc.Title, doc.SourceURL, doc.StorageURL, doc.ContentType, doc.CreatedAt)
	return err
}

func (c *DatabaseClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	const q = `
		SELECT id, advisor_id, title, source_url, storage_url, content_type, created_at
		FROM documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.AdvisorID, &d.Title, &d.SourceURL, &d.StorageURL, &d.ContentType, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDocumentsByAdvisor(ctx context.Context, advisorID string) ([]models.Document, error) {
	const q = `
		SELECT id, advisor_id, title, source_url, storage_url, content_type, created_at
		FROM documents
		WHERE advisor_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, advisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.AdvisorID, &d.Title, &d.SourceURL, &d.StorageURL, &d.ContentType, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InsertChunk writes a single chunk row. Chunks are inserted one at a time,
// immediately after each embedding call succeeds, so a failed embedding never
// leaves a placeholder row behind.
func (c *DatabaseClient) InsertChunk(ctx context.Context, chunk *models.DocumentChunk) error {
	if chunk == nil {
		return errors.New("nil chunk")
	}
	const q = `
		INSERT INTO document_chunks
			(id, document_id, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`
	vec := pgvector.NewVector(chunk.Embedding)
	_, err := c.db.ExecContext(ctx, q,
		chunk.ID, chunk.DocumentID, chunk.Content, vec, chunk.CreatedAt)
	return err
}

func (c *DatabaseClient) CountChunksByDocument(ctx context.Context, documentID string) (int, error) {
	const q = `SELECT count(*) FROM document_chunks WHERE document_id = $1`
	var n int
	if err := c.db.QueryRowContext(ctx, q, documentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MatchChunks calls the match_document_chunks SQL function installed by the
// bootstrap script. The similarity math lives store-side; this client only
// consumes the stable contract.
func (c *DatabaseClient) MatchChunks(ctx context.Context, queryVec []float32, advisorID string, threshold float64, limit int) ([]models.ChunkMatch, error) {
	const q = `SELECT content, similarity FROM match_document_chunks($1, $2, $3, $4)`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, vec, advisorID, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChunkMatch
	for rows.Next() {
		var m models.ChunkMatch
		if err := rows.Scan(&m.Content, &m.Similarity); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
