// Package profiler records how long the named stages of the icon pipeline
// take.
package profiler

import (
	"sort"
	"sync"
	"time"
)

// Tracker collects timing statistics per operation name. It is safe for
// concurrent use.
type Tracker struct {
	mu             sync.Mutex
	operationTimes map[string]*TimeTracker
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	Name      string
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
	Count     int64
}

// Average returns the mean duration of the recorded operations.
func (t TimeTracker) Average() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.TotalTime / time.Duration(t.Count)
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		operationTimes: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes; it returns the elapsed time.
func (t *Tracker) StartOperation(name string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		duration := time.Since(start)
		t.Record(name, duration)
		return duration
	}
}

// Record adds a completed operation of the given duration.
func (t *Tracker) Record(name string, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, exists := t.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{
			Name:    name,
			MinTime: duration,
			MaxTime: duration,
		}
		t.operationTimes[name] = tracker
	}

	tracker.TotalTime += duration
	tracker.Count++

	if duration < tracker.MinTime {
		tracker.MinTime = duration
	}
	if duration > tracker.MaxTime {
		tracker.MaxTime = duration
	}
}

// Snapshot returns a copy of the statistics sorted by operation name.
func (t *Tracker) Snapshot() []TimeTracker {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TimeTracker, 0, len(t.operationTimes))
	for _, tracker := range t.operationTimes {
		out = append(out, *tracker)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Merge adds every statistic recorded by other into t.
func (t *Tracker) Merge(other *Tracker) {
	if other == nil || other == t {
		return
	}
	stats := other.Snapshot()

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, stat := range stats {
		if stat.Count == 0 {
			continue
		}
		tracker, exists := t.operationTimes[stat.Name]
		if !exists {
			copied := stat
			t.operationTimes[stat.Name] = &copied
			continue
		}

		tracker.TotalTime += stat.TotalTime
		tracker.Count += stat.Count
		tracker.MinTime = min(tracker.MinTime, stat.MinTime)
		tracker.MaxTime = max(tracker.MaxTime, stat.MaxTime)
	}
}
