package runtime

import (
	"time"

	"ward-lab/domain"
	"ward-lab/gaps"
)

// runContext is the per-run accumulator threaded through the stages:
// the append-only trace and the dedup-by-id gap registry. Handing it to
// each stage explicitly keeps the stages unit-testable in isolation.
type runContext struct {
	trace domain.Trace
	reg   *gaps.Registry
}

func newRunContext(mode domain.ViewMode, locale gaps.Locale) *runContext {
	return &runContext{reg: gaps.NewRegistry(mode, locale)}
}

func (rc *runContext) step(step string, start time.Time, success bool,
	status domain.StageStatus, summary, errText string, artifacts map[string]any) {
	rc.trace.Append(domain.TraceRecord{
		Step:      step,
		Success:   success,
		Status:    status,
		LatencyMS: time.Since(start).Milliseconds(),
		Summary:   summary,
		Error:     errText,
		Artifacts: artifacts,
	})
}
