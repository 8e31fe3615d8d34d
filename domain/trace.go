package domain

// StageStatus is the outcome of one pipeline stage.
type StageStatus string

const (
	StatusOK      StageStatus = "ok"
	StatusFailed  StageStatus = "failed"
	StatusSkipped StageStatus = "skipped"
)

// TraceRecord captures one stage of the pipeline. Records are appended
// in execution order and never rewritten.
type TraceRecord struct {
	Step      string         `json:"step"`
	Success   bool           `json:"success"`
	Status    StageStatus    `json:"status"`
	LatencyMS int64          `json:"latency_ms"`
	Summary   string         `json:"summary"`
	Error     string         `json:"error,omitempty"`
	Artifacts map[string]any `json:"artifacts"`
}

// Trace is the append-only execution record of one run. A failing stage
// also contributes a "step: error" line to the error summary.
type Trace struct {
	records      []TraceRecord
	errorSummary []string
}

func (t *Trace) Append(rec TraceRecord) {
	if rec.Artifacts == nil {
		rec.Artifacts = map[string]any{}
	}
	t.records = append(t.records, rec)
	if rec.Error != "" {
		t.errorSummary = append(t.errorSummary, rec.Step+": "+rec.Error)
	}
}

func (t *Trace) Records() []TraceRecord {
	return t.records
}

func (t *Trace) ErrorSummary() []string {
	return t.errorSummary
}
