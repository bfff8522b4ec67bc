package build

import (
	"sync"
	"time"
)

// BuildMetrics accumulates statistics across Generate runs.
type BuildMetrics struct {
	mutex sync.RWMutex
	snap  MetricsSnapshot
}

// MetricsSnapshot is a copy of the counters at one instant.
type MetricsSnapshot struct {
	TotalBuilds      int64         `json:"total_builds"`
	SuccessfulBuilds int64         `json:"successful_builds"`
	FailedBuilds     int64         `json:"failed_builds"`
	PagesBuilt       int64         `json:"pages_built"`
	ForcedPages      int64         `json:"forced_pages"`
	LastDuration     time.Duration `json:"last_duration"`
	AverageDuration  time.Duration `json:"average_duration"`
	TotalDuration    time.Duration `json:"total_duration"`
	LastBuild        time.Time     `json:"last_build"`
}

// NewBuildMetrics creates an empty tracker.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{}
}

// RecordBuild adds one Generate run. result may be nil when the run failed
// before any page was attempted.
func (bm *BuildMetrics) RecordBuild(result *Result, duration time.Duration, err error) {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	s := &bm.snap
	s.TotalBuilds++
	s.TotalDuration += duration
	s.LastDuration = duration
	s.AverageDuration = s.TotalDuration / time.Duration(s.TotalBuilds)
	s.LastBuild = time.Now()

	if err != nil {
		s.FailedBuilds++
	} else {
		s.SuccessfulBuilds++
	}

	if result == nil || result.Manifest == nil {
		return
	}
	for _, p := range result.Manifest.Pages {
		s.PagesBuilt++
		if p.Forced {
			s.ForcedPages++
		}
	}
}

// Snapshot returns a copy of the counters.
func (bm *BuildMetrics) Snapshot() MetricsSnapshot {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()
	return bm.snap
}

// Reset zeroes every counter.
func (bm *BuildMetrics) Reset() {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()
	bm.snap = MetricsSnapshot{}
}

// ForcedRate is the percentage of built pages whose gate timed out.
func (s MetricsSnapshot) ForcedRate() float64 {
	if s.PagesBuilt == 0 {
		return 0
	}
	return float64(s.ForcedPages) / float64(s.PagesBuilt) * 100
}
