package ingest

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mentora-labs/mentora/internal/models"
)

// videoIDPattern recognizes the canonical watch?v=, youtu.be short, /v/,
// /shorts/ and /embed/ URL shapes in one pass.
var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:.*v=|v/|shorts/|embed/))([^?&"'>]+)`)

// ParseVideoID extracts a YouTube video ID from a URL, or returns an empty
// string when none is present.
func ParseVideoID(url string) string {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// TranscriptFetcher is the acquisition engine boundary: given a video ID it
// either returns caption text or the engine's aggregated failure.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// YouTubeExtractor resolves a video URL to its caption transcript.
type YouTubeExtractor struct {
	engine TranscriptFetcher
}

func NewYouTubeExtractor(engine TranscriptFetcher) *YouTubeExtractor {
	return &YouTubeExtractor{engine: engine}
}

func (e *YouTubeExtractor) Extract(ctx context.Context, src models.SourceDescriptor) (Extraction, error) {
	if src.URL == "" {
		return Extraction{}, ErrMissingURL
	}

	videoID := ParseVideoID(src.URL)
	if videoID == "" {
		return Extraction{}, fmt.Errorf("could not extract video ID from %q", src.URL)
	}

	transcript, err := e.engine.Transcript(ctx, videoID)
	if err != nil {
		return Extraction{}, err
	}

	title := src.Title
	if title == "" || title == "General Knowledge" || title == "YouTube Video" {
		title = "YouTube Transcript: " + src.URL
	}
	return Extraction{Text: transcript, Title: title}, nil
}
