package ingest

import (
	"fmt"
)

// Default chunking parameters. 1000-char windows with a 200-char overlap keep
// individual embedding calls small while giving neighbouring chunks enough
// shared context for retrieval.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk splits text into overlapping fixed-size windows: each window starts
// size-overlap characters after the previous one and the final window may be
// shorter than size. The result is a pure function of its inputs, so a
// re-ingest of identical text produces identical chunks.
//
// size-overlap must be positive; otherwise the window would never advance and
// the loop would not terminate, so that configuration is rejected up front.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if size-overlap <= 0 {
		return nil, fmt.Errorf("chunk size %d must exceed overlap %d", size, overlap)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for offset := 0; offset < len(runes); offset += step {
		end := offset + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[offset:end]))
	}
	return chunks, nil
}
