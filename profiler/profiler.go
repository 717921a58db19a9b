// Package profiler - Stage timing for a single pipeline run.
package profiler

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// RuntimeProfiler records how long each named operation takes.
//
// It is safe for concurrent use. Operations are reported in the order they
// were first recorded.
type RuntimeProfiler struct {
	mu             sync.Mutex
	operationTimes map[string]*TimeTracker
	order          []string
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	name      string
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// OperationStats is a snapshot of one operation's timings.
type OperationStats struct {
	Name  string
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns the average duration.
func (s OperationStats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s OperationStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", s.Name)
	enc.AddInt64("count", s.Count)
	enc.AddDuration("total", s.Total)
	enc.AddDuration("mean", s.Mean())
	if s.Count > 1 {
		enc.AddDuration("min", s.Min)
		enc.AddDuration("max", s.Max)
	}
	return nil
}

// NewRuntimeProfiler creates a new runtime profiler.
func NewRuntimeProfiler() *RuntimeProfiler {
	return &RuntimeProfiler{
		operationTimes: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (rp *RuntimeProfiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start)
		rp.recordOperationTime(name, duration)
	}
}

// recordOperationTime records the completion time of an operation.
func (rp *RuntimeProfiler) recordOperationTime(name string, duration time.Duration) {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	tracker, exists := rp.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{
			name:    name,
			minTime: duration,
			maxTime: duration,
		}
		rp.operationTimes[name] = tracker
		rp.order = append(rp.order, name)
	}

	tracker.totalTime += duration
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// Report returns a snapshot of every recorded operation.
func (rp *RuntimeProfiler) Report() []OperationStats {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	stats := make([]OperationStats, 0, len(rp.order))
	for _, name := range rp.order {
		t := rp.operationTimes[name]
		stats = append(stats, OperationStats{
			Name:  t.name,
			Count: t.count,
			Total: t.totalTime,
			Min:   t.minTime,
			Max:   t.maxTime,
		})
	}
	return stats
}

// HeapInUse returns the current heap usage in human readable form.
func HeapInUse() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return formatBytes(m.HeapInuse)
}

// formatBytes formats bytes into human readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
