package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mentora-labs/mentora/internal/api/handlers"
	"github.com/mentora-labs/mentora/internal/config"
	"github.com/mentora-labs/mentora/internal/core"
	"github.com/mentora-labs/mentora/internal/core/ingest"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, emb core.EmbeddingProvider, ing *ingest.Ingestor, logger *slog.Logger) *Server {
	ingestHandler := handlers.NewIngestHandler(ing, logger.With("handler", "ingest"))
	extensionHandler := handlers.NewExtensionHandler(db, ing, cfg.BatchWorkers, logger.With("handler", "extension"))
	queryHandler := handlers.NewQueryHandler(db, emb, logger.With("handler", "query"))
	documentsHandler := handlers.NewDocumentsHandler(db, logger.With("handler", "documents"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Long enough for a big PDF's sequential embedding loop.
	r.Use(middleware.Timeout(10 * time.Minute))

	// The extension and the web app are cross-origin callers.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "chrome-extension://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		api.Post("/ingest", ingestHandler.Ingest)
		api.Post("/query", queryHandler.Query)

		api.Get("/advisors/{advisorID}/documents", documentsHandler.ListByAdvisor)
		api.Get("/documents/{documentID}", documentsHandler.Get)

		api.Route("/extension", func(ext chi.Router) {
			ext.Post("/ingest", extensionHandler.BatchIngest)
			ext.Get("/advisors", extensionHandler.Advisors)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, logger: logger}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
