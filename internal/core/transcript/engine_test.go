package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestEngineFirstSuccessWins(t *testing.T) {
	first := &stubStrategy{name: "one", text: "hello from one"}
	second := &stubStrategy{name: "two", text: "hello from two"}

	engine := NewEngine(nil, first, second)
	text, err := engine.Transcript(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "hello from one", text)
	assert.Equal(t, 0, second.calls, "later layers must not run after a success")
}

func TestEngineCascadesPastFailure(t *testing.T) {
	first := &stubStrategy{name: "one", err: errors.New("interpreter missing")}
	second := &stubStrategy{name: "two", text: "scraped transcript"}
	third := &stubStrategy{name: "three", text: "library transcript"}

	engine := NewEngine(nil, first, second, third)
	text, err := engine.Transcript(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "scraped transcript", text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestEngineEmptyTextIsFailure(t *testing.T) {
	first := &stubStrategy{name: "one", text: "   "}
	second := &stubStrategy{name: "two", text: "real text"}

	engine := NewEngine(nil, first, second)
	text, err := engine.Transcript(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "real text", text)
}

func TestEngineAggregatesAllFailures(t *testing.T) {
	engine := NewEngine(nil,
		&stubStrategy{name: "python bridge", err: errors.New("python3 not found")},
		&stubStrategy{name: "watch page scrape", err: errors.New("served a bot-detection page")},
		&stubStrategy{name: "transcript library", err: errors.New("no transcript segments returned")},
	)

	_, err := engine.Transcript(context.Background(), "abc123")
	require.Error(t, err)

	// Each layer's reason stays distinguishable in the aggregate.
	assert.Contains(t, err.Error(), "python bridge: python3 not found")
	assert.Contains(t, err.Error(), "watch page scrape: served a bot-detection page")
	assert.Contains(t, err.Error(), "transcript library: no transcript segments returned")
	assert.Contains(t, err.Error(), "abc123")
}

func TestEngineNoRetries(t *testing.T) {
	failing := &stubStrategy{name: "one", err: errors.New("boom")}
	engine := NewEngine(nil, failing)

	_, err := engine.Transcript(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, 1, failing.calls)
}
