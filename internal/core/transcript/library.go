package transcript

import (
	"context"
	"fmt"
	"strings"

	youtube "github.com/kkdai/youtube/v2"
)

// LibraryStrategy is the last-resort layer: a general-purpose YouTube client
// library that fetches transcript segments by video ID.
type LibraryStrategy struct {
	client *youtube.Client
}

func NewLibraryStrategy() *LibraryStrategy {
	return &LibraryStrategy{client: &youtube.Client{}}
}

func (s *LibraryStrategy) Name() string { return "transcript library" }

func (s *LibraryStrategy) Fetch(ctx context.Context, videoID string) (string, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("get video: %v", err)
	}

	segments, err := s.client.GetTranscriptCtx(ctx, video, "en")
	if err != nil {
		return "", fmt.Errorf("get transcript: %v", err)
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("no transcript segments returned")
	}

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, " "), nil
}
