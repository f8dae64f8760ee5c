package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// CommandRunner abstracts subprocess execution so tests can fake the bridge
// without spawning interpreters.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// bridgeResult is the single JSON object the script must print on stdout.
type bridgeResult struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Error      string `json:"error"`
}

// BridgeStrategy shells out to the transcript script (youtube_transcript_api
// under the hood). Interpreter candidates are tried in preference order until
// one actually starts; once a process runs, its outcome decides the layer —
// a later candidate is never consulted to overrule a semantic failure.
type BridgeStrategy struct {
	runner       CommandRunner
	interpreters []string
	scriptPath   string
	timeout      time.Duration
}

func NewBridgeStrategy(scriptPath string, timeout time.Duration) *BridgeStrategy {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BridgeStrategy{
		runner:       execRunner{},
		interpreters: []string{"python3", "python"},
		scriptPath:   scriptPath,
		timeout:      timeout,
	}
}

// WithRunner swaps the subprocess runner; used by tests.
func (s *BridgeStrategy) WithRunner(r CommandRunner) *BridgeStrategy {
	s.runner = r
	return s
}

func (s *BridgeStrategy) Name() string { return "python bridge" }

func (s *BridgeStrategy) Fetch(ctx context.Context, videoID string) (string, error) {
	var lastErr error

	for _, interp := range s.interpreters {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		out, err := s.runner.Run(attemptCtx, interp, s.scriptPath, videoID)
		cancel()

		if err != nil {
			// A missing interpreter means this candidate never ran; try the
			// next one. Anything else (non-zero exit, timeout kill) means the
			// attempt is this layer's final answer.
			if errors.Is(err, exec.ErrNotFound) {
				lastErr = fmt.Errorf("%s not found", interp)
				continue
			}
			if attemptCtx.Err() != nil {
				return "", fmt.Errorf("%s timed out after %s", interp, s.timeout)
			}
			return "", fmt.Errorf("%s failed: %v", interp, err)
		}

		return parseBridgeOutput(out)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no interpreter candidates configured")
	}
	return "", lastErr
}

func parseBridgeOutput(out []byte) (string, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("script produced no output")
	}
	if bytes.ContainsRune(trimmed, '\n') {
		return "", fmt.Errorf("script produced multi-line output, want a single JSON object")
	}

	var res bridgeResult
	if err := json.Unmarshal(trimmed, &res); err != nil {
		return "", fmt.Errorf("script output is not valid JSON: %v", err)
	}
	if !res.Success {
		if res.Error == "" {
			res.Error = "unspecified script error"
		}
		return "", fmt.Errorf("script reported failure: %s", res.Error)
	}
	if res.Transcript == "" {
		return "", fmt.Errorf("script reported success with empty transcript")
	}
	return res.Transcript, nil
}
