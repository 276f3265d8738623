package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics tracks per-session counters for the viewer and the step runner.
type Metrics struct {
	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64

	// Input handling
	keyCount     atomic.Uint64
	unboundCount atomic.Uint64

	// Selection commands
	commandCount atomic.Uint64
	failedCount  atomic.Uint64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRender records how long one screen draw took.
func (m *Metrics) RecordRender(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.renderMaxNs.Load()
		if ns <= old {
			break
		}
		if m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordKey records a key press. Keys without a binding count as unbound.
func (m *Metrics) RecordKey(bound bool) {
	m.keyCount.Add(1)
	if !bound {
		m.unboundCount.Add(1)
	}
}

// RecordCommand records a select, shrink or cursor command and whether it
// failed.
func (m *Metrics) RecordCommand(err error) {
	m.commandCount.Add(1)
	if err != nil {
		m.failedCount.Add(1)
	}
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renderCount := m.renderCount.Load()

	var avgRenderNs int64
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		RenderCount:    renderCount,
		AvgRenderNs:    avgRenderNs,
		MaxRenderNs:    m.renderMaxNs.Load(),
		KeyCount:       m.keyCount.Load(),
		UnboundKeys:    m.unboundCount.Load(),
		CommandCount:   m.commandCount.Load(),
		FailedCommands: m.failedCount.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	RenderCount    uint64
	AvgRenderNs    int64
	MaxRenderNs    int64
	KeyCount       uint64
	UnboundKeys    uint64
	CommandCount   uint64
	FailedCommands uint64
}

// String formats the snapshot for a log line.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("uptime=%s renders=%d avgRender=%s keys=%d unbound=%d commands=%d failed=%d",
		s.Uptime.Round(time.Millisecond), s.RenderCount, time.Duration(s.AvgRenderNs),
		s.KeyCount, s.UnboundKeys, s.CommandCount, s.FailedCommands)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}

// Metrics returns the application's metrics.
func (app *App) Metrics() *Metrics {
	return app.metrics
}
