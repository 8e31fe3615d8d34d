package domain

// RawEvidence is one hit as returned by a retrieval engine, before any
// ranking, tiering or trimming happens.
type RawEvidence struct {
	Text       string
	SourceFile string
	SourcePath string
	Category   string
	// Score is nil when the engine could not compute a similarity.
	Score *float64
}

// EvidenceItem is one ranked reference snippet embedded in the result.
// Tier ordering is ranking metadata and is not part of this record.
type EvidenceItem struct {
	Text       string   `json:"text"`
	SourceFile string   `json:"source_file"`
	SourcePath string   `json:"source_path"`
	Category   string   `json:"category"`
	Score      *float64 `json:"score"`
}

// Source returns the best available identifier for display.
func (e EvidenceItem) Source() string {
	if e.SourceFile != "" {
		return e.SourceFile
	}
	if e.SourcePath != "" {
		return e.SourcePath
	}
	return "source"
}
