// Package stats implements the counters and 30s periodic reporter. All
// counters are main-loop-only state — see spec.md §5, nothing here is
// touched from interrupt context.
package stats

import (
	"fmt"
	"time"
)

// Counters tracks the three reset-on-report counters.
type Counters struct {
	PacketsTotal uint64
	AcksSuccess  uint64
	ErrorsTotal  uint64
}

// Snapshot is a point-in-time view handed to the monitor dashboard and the
// periodic log report.
type Snapshot struct {
	Counters
	QueueSize   int
	Uptime      time.Duration
	TimedActive bool
}

// ReportInterval is the 30s wall-clock cadence for stats emission.
const ReportInterval = 30 * time.Second

// Reporter accumulates counters and a QueueSize/TimedActive source,
// emitting a multi-line block on ReportInterval.
type Reporter struct {
	counters Counters
	started  time.Duration
	lastTick time.Duration
	queueLen func() int
	timed    func() bool
}

// New creates a Reporter. now is the monotonic clock value at startup;
// queueLen and timed let the reporter read live queue/TimedAction state
// without owning either.
func New(now time.Duration, queueLen func() int, timed func() bool) *Reporter {
	return &Reporter{started: now, lastTick: now, queueLen: queueLen, timed: timed}
}

func (r *Reporter) RecordPacket()     { r.counters.PacketsTotal++ }
func (r *Reporter) RecordAckSuccess() { r.counters.AcksSuccess++ }
func (r *Reporter) RecordError()      { r.counters.ErrorsTotal++ }

// Snapshot returns the current counters and derived fields without
// resetting anything — used by the monitor dashboard between report ticks.
func (r *Reporter) Snapshot(now time.Duration) Snapshot {
	return Snapshot{
		Counters:    r.counters,
		QueueSize:   r.queueLen(),
		Uptime:      now - r.started,
		TimedActive: r.timed(),
	}
}

// Tick returns a formatted report and resets the counters when
// ReportInterval has elapsed since the last report; otherwise it returns
// ("", false) and does nothing.
func (r *Reporter) Tick(now time.Duration) (string, bool) {
	if now-r.lastTick < ReportInterval {
		return "", false
	}
	r.lastTick = now

	snap := r.Snapshot(now)
	report := format(snap)
	r.counters = Counters{}
	return report, true
}

func format(s Snapshot) string {
	successRate := "N/A"
	if s.PacketsTotal > 0 {
		successRate = fmt.Sprintf("%.1f%%", 100*float64(s.AcksSuccess)/float64(s.PacketsTotal))
	}

	h := s.Uptime / time.Hour
	m := (s.Uptime % time.Hour) / time.Minute
	sec := (s.Uptime % time.Minute) / time.Second

	return fmt.Sprintf(
		"--- stats ---\n"+
			"packets_total=%d acks_success=%d errors_total=%d success_rate=%s\n"+
			"queue_size=%d timed_action_active=%t\n"+
			"uptime=%dh%dm%ds\n"+
			"-------------",
		s.PacketsTotal, s.AcksSuccess, s.ErrorsTotal, successRate,
		s.QueueSize, s.TimedActive,
		h, m, sec,
	)
}
