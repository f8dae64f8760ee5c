// Package transcript acquires YouTube caption text through a cascade of
// independent strategies: a python subprocess bridge, a direct watch-page
// scrape, and a general-purpose YouTube client library. Strategies are tried
// strictly in order and never mix partial output; when all fail, the caller
// gets every layer's reason in one error so the chronically weak layer is
// visible in logs.
package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Strategy is one acquisition layer. Fetch either returns non-empty caption
// text or an error describing why this layer cannot serve the video; it must
// not panic or hang past its own timeout.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Engine runs the strategy cascade.
type Engine struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewEngine(logger *slog.Logger, strategies ...Strategy) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{strategies: strategies, logger: logger}
}

// Transcript returns the first strategy's successful text. A success is a
// non-empty transcript; an empty string from a layer counts as that layer
// failing. No layer is retried and later layers are not consulted after a
// success.
func (e *Engine) Transcript(ctx context.Context, videoID string) (string, error) {
	var failures []string

	for _, s := range e.strategies {
		text, err := s.Fetch(ctx, videoID)
		if err == nil && strings.TrimSpace(text) != "" {
			e.logger.Info("transcript acquired", "video_id", videoID, "layer", s.Name())
			return strings.TrimSpace(text), nil
		}
		if err == nil {
			err = fmt.Errorf("empty transcript")
		}
		e.logger.Warn("transcript layer failed", "video_id", videoID, "layer", s.Name(), "error", err)
		failures = append(failures, fmt.Sprintf("%s: %v", s.Name(), err))
	}

	return "", fmt.Errorf("no transcript found for %s, all layers failed: %s",
		videoID, strings.Join(failures, "; "))
}
