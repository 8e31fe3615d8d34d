// Package observability collects process-level telemetry attached to
// run traces, so memory-pressure failures can be audited afterwards.
package observability

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
)

// ResourceSnapshot is a point-in-time view of this process.
type ResourceSnapshot struct {
	RSSMb      uint64  `json:"rss_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	AllocMb    uint64  `json:"alloc_mb"`
	NumGC      uint32  `json:"num_gc"`
}

// Snapshot gathers current process stats. Collection is best effort:
// a gopsutil failure degrades to runtime-only numbers.
func Snapshot(log *slog.Logger) ResourceSnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	snap := ResourceSnapshot{
		AllocMb: ms.Alloc / 1024 / 1024,
		NumGC:   ms.NumGC,
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Debug("Process handle unavailable", "err", err)
		return snap
	}
	if mem, err := p.MemoryInfo(); err == nil {
		snap.RSSMb = mem.RSS / 1024 / 1024
	}
	if cpu, err := p.CPUPercent(); err == nil {
		snap.CPUPercent = cpu
	}
	return snap
}

// Artifacts renders the snapshot as trace artifact values.
func (s ResourceSnapshot) Artifacts() map[string]any {
	return map[string]any{
		"rss_mb":      s.RSSMb,
		"cpu_percent": s.CPUPercent,
		"alloc_mb":    s.AllocMb,
		"num_gc":      s.NumGC,
	}
}
