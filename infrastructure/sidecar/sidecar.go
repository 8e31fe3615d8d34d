// Package sidecar bridges the pipeline's collaborator contracts to
// external engine processes. Each call launches the configured command,
// feeds it the payload on stdin and reads its reply from stdout; the
// engines themselves stay outside this repository.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"ward-lab/domain"
)

// Command describes one external engine binary.
type Command struct {
	BinPath string
	Args    []string
	Timeout time.Duration
}

// run performs the fail-fast binary check, then executes one request.
func (c Command) run(ctx context.Context, stdin string, log *slog.Logger) ([]byte, error) {
	if _, err := os.Stat(c.BinPath); err != nil {
		return nil, fmt.Errorf("engine binary not found: %s", c.BinPath)
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.BinPath, c.Args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Debug("Sidecar call finished",
		"bin", c.BinPath, "latency_ms", time.Since(start).Milliseconds(), "err", err)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Reasoner adapts a command to the ReasoningModel contract. The
// command receives the prompt on stdin and must print a JSON object.
type Reasoner struct {
	Cmd Command
	Log *slog.Logger
}

func (r *Reasoner) Run(ctx context.Context, prompt, imageRef string, maxNewTokens int) (map[string]any, error) {
	args := append([]string{}, r.Cmd.Args...)
	if imageRef != "" {
		args = append(args, "--image", imageRef)
	}
	if maxNewTokens > 0 {
		args = append(args, "--max-new-tokens", fmt.Sprint(maxNewTokens))
	}
	out, err := Command{BinPath: r.Cmd.BinPath, Args: args, Timeout: r.Cmd.Timeout}.run(ctx, prompt, r.Log)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("engine returned invalid JSON: %w", err)
	}
	return result, nil
}

// Transcriber adapts a command to the Transcriber contract. The command
// receives the audio reference on stdin and prints the transcript.
type Transcriber struct {
	Cmd Command
	Log *slog.Logger
}

func (t *Transcriber) Transcribe(ctx context.Context, audioRef string) (string, error) {
	out, err := t.Cmd.run(ctx, audioRef, t.Log)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Analyzer adapts a command to the ImageAnalyzer contract. The command
// receives the image reference on stdin and prints findings as JSON.
type Analyzer struct {
	Cmd Command
	Log *slog.Logger
}

func (a *Analyzer) Analyze(ctx context.Context, imageRef string) (*domain.ImageFindings, error) {
	out, err := a.Cmd.run(ctx, imageRef, a.Log)
	if err != nil {
		return nil, err
	}
	var findings domain.ImageFindings
	if err := json.Unmarshal(out, &findings); err != nil {
		return nil, fmt.Errorf("engine returned invalid JSON: %w", err)
	}
	return &findings, nil
}
