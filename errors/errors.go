package errors

import "fmt"

// Collaborator availability and retrieval outcomes.
// The text lands verbatim in trace records, so it stays snake_case.
var (
	ErrTranscriberMissing = fmt.Errorf("asr_transcriber_missing")
	ErrAnalyzerMissing    = fmt.Errorf("image_analyzer_missing")
	ErrEngineMissing      = fmt.Errorf("rag_engine_missing")
	ErrEmptyQuery         = fmt.Errorf("empty_query")
	ErrNoEvidence         = fmt.Errorf("no_relevant_evidence")
)
