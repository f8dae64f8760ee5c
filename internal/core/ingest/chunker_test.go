package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cyclingText builds a string whose content encodes its own offsets, so a
// chunk taken from the wrong window is detectable.
func cyclingText(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

func TestChunkWindowsAndOffsets(t *testing.T) {
	text := cyclingText(2500)

	chunks, err := Chunk(text, 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	// Windows start every 800 chars; the one at 1600 is clamped by the end of
	// the 2500-char text.
	wantLens := []int{1000, 1000, 900, 100}
	for i, c := range chunks {
		assert.Len(t, c, wantLens[i], "chunk %d", i)
		offset := i * 800
		assert.Equal(t, text[offset:offset+len(c)], c, "chunk %d content", i)
	}
}

func TestChunkExactMultiple(t *testing.T) {
	// 1800 chars: windows at 0 and 800 cover everything; a third window at
	// 1600 still starts inside the text and emits the 200-char tail.
	chunks, err := Chunk(cyclingText(1800), 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[2], 200)
}

func TestChunkShortText(t *testing.T) {
	chunks, err := Chunk("hello", 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestChunkEmptyText(t *testing.T) {
	chunks, err := Chunk("", 1000, 200)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkDeterministic(t *testing.T) {
	text := cyclingText(5000)

	a, err := Chunk(text, 1000, 200)
	require.NoError(t, err)
	b, err := Chunk(text, 1000, 200)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestChunkRoundTrip(t *testing.T) {
	text := cyclingText(3333)
	size, overlap := 500, 120

	chunks, err := Chunk(text, size, overlap)
	require.NoError(t, err)

	// Dropping each chunk's leading overlap reconstructs the original; a
	// final chunk no longer than the overlap is already fully covered by its
	// predecessor.
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		if len(c) > overlap {
			b.WriteString(c[overlap:])
		}
	}
	assert.Equal(t, text, b.String())
}

func TestChunkRejectsDegenerateConfig(t *testing.T) {
	_, err := Chunk("some text", 200, 200)
	require.Error(t, err)

	_, err = Chunk("some text", 200, 300)
	require.Error(t, err)

	_, err = Chunk("some text", 0, 0)
	require.Error(t, err)

	_, err = Chunk("some text", 100, -1)
	require.Error(t, err)
}

func TestChunkUnicodeBoundaries(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 100)

	chunks, err := Chunk(text, 50, 10)
	require.NoError(t, err)
	runes := []rune(text)
	for i, c := range chunks {
		// Windows advance in runes, never splitting a multi-byte character.
		assert.True(t, utf8.ValidString(c), "chunk %d", i)
		assert.LessOrEqual(t, len([]rune(c)), 50, "chunk %d", i)
		offset := i * 40
		end := offset + len([]rune(c))
		assert.Equal(t, string(runes[offset:end]), c, "chunk %d content", i)
	}
}
