package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/mentora-labs/mentora/internal/config"
	"github.com/mentora-labs/mentora/internal/core"
	db "github.com/mentora-labs/mentora/internal/core/database"
	"github.com/mentora-labs/mentora/internal/core/ingest"
	"github.com/mentora-labs/mentora/internal/core/llm"
	"github.com/mentora-labs/mentora/internal/core/objectstore"
	"github.com/mentora-labs/mentora/internal/core/transcript"
	"github.com/mentora-labs/mentora/internal/models"
)

// App wires the service together: store, optional object archive, embedder,
// transcript engine, extractors, orchestrator, HTTP server.
type App struct {
	DBClient core.DbClient
	Server   *Server
	logger   *slog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbClient, err := db.NewDatabaseClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	logger.Info("database initialized and bootstrapped")

	// Object archiving is optional: no bucket, no archive.
	var objClient core.ObjectClient
	if cfg.BucketName != "" {
		objClient, err = objectstore.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("object store: %w", err)
		}
		logger.Info("object store initialized", "bucket", cfg.BucketName)
	}

	// One limiter for every embedding call in the process, so batch fan-out
	// cannot exceed the provider's courtesy rate.
	limiter := rate.NewLimiter(rate.Every(cfg.EmbedInterval), 1)
	embedder, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel, cfg.EmbedDim, limiter)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	engine := transcript.NewEngine(logger.With("component", "transcript"),
		transcript.NewBridgeStrategy(cfg.TranscriptScript, cfg.BridgeTimeout),
		transcript.NewScrapeStrategy(cfg.BridgeTimeout, cfg.FetchTimeout),
		transcript.NewLibraryStrategy(),
	)

	extractors := map[string]ingest.Extractor{
		models.SourceText:    ingest.TextExtractor{},
		models.SourceWeb:     ingest.NewWebExtractor(cfg.FetchTimeout),
		models.SourcePDF:     ingest.PDFExtractor{},
		models.SourceYouTube: ingest.NewYouTubeExtractor(engine),
	}

	ingestor, err := ingest.NewIngestor(dbClient, objClient, embedder, extractors, ingest.Config{
		ChunkSize:        cfg.ChunkSize,
		ChunkOverlap:     cfg.ChunkOverlap,
		MaxDocumentChars: cfg.MaxDocumentChars,
		Bucket:           cfg.BucketName,
	}, logger.With("component", "ingest"))
	if err != nil {
		return nil, fmt.Errorf("ingestor: %w", err)
	}

	server := NewServer(cfg, dbClient, embedder, ingestor, logger)

	return &App{DBClient: dbClient, Server: server, logger: logger}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
