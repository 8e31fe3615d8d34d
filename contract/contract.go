//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"ward-lab/domain"
)

// Transcriber turns an audio reference into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string) (string, error)
}

// ImageAnalyzer inspects a scan and reports findings.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, imageRef string) (*domain.ImageFindings, error)
}

// ReasoningModel runs one prompt against the text-generation engine.
// A degraded generation is signaled by an "error" key in the returned
// mapping, not by a non-nil error; the error return covers transport
// failures only. Callers must check for the key.
type ReasoningModel interface {
	Run(ctx context.Context, prompt, imageRef string, maxNewTokens int) (map[string]any, error)
}

// RetrievalEngine answers a free-text query with raw evidence hits.
// It may return an empty slice when no index is available.
type RetrievalEngine interface {
	Query(ctx context.Context, text string, topK int) ([]domain.RawEvidence, error)
}

// ProgressNotifier receives best-effort checkpoints between stages.
// Implementations may fail; the pipeline ignores whatever they return.
type ProgressNotifier interface {
	Notify(fraction float64, description string) error
}
