package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotBeforeAnyPackets(t *testing.T) {
	r := New(0, func() int { return 0 }, func() bool { return false })
	snap := r.Snapshot(5 * time.Second)

	assert.EqualValues(t, 0, snap.PacketsTotal)
	assert.Equal(t, 5*time.Second, snap.Uptime)
	assert.False(t, snap.TimedActive)
}

func TestRecordersAccumulate(t *testing.T) {
	r := New(0, func() int { return 3 }, func() bool { return true })
	r.RecordPacket()
	r.RecordPacket()
	r.RecordAckSuccess()
	r.RecordError()

	snap := r.Snapshot(0)
	assert.EqualValues(t, 2, snap.PacketsTotal)
	assert.EqualValues(t, 1, snap.AcksSuccess)
	assert.EqualValues(t, 1, snap.ErrorsTotal)
	assert.Equal(t, 3, snap.QueueSize)
	assert.True(t, snap.TimedActive)
}

func TestTickDoesNothingBeforeInterval(t *testing.T) {
	r := New(0, func() int { return 0 }, func() bool { return false })
	r.RecordPacket()

	_, ok := r.Tick(ReportInterval - time.Millisecond)
	assert.False(t, ok)
	assert.EqualValues(t, 1, r.Snapshot(0).PacketsTotal, "counters must survive an early Tick untouched")
}

func TestTickFiresAtIntervalAndResets(t *testing.T) {
	r := New(0, func() int { return 0 }, func() bool { return false })
	r.RecordPacket()
	r.RecordAckSuccess()

	report, ok := r.Tick(ReportInterval)
	require.True(t, ok)
	assert.Contains(t, report, "packets_total=1")
	assert.Contains(t, report, "success_rate=100.0%")

	assert.EqualValues(t, 0, r.Snapshot(ReportInterval).PacketsTotal, "counters must reset after a report fires")
}

func TestTickSuccessRateNAWithNoPackets(t *testing.T) {
	r := New(0, func() int { return 0 }, func() bool { return false })
	report, ok := r.Tick(ReportInterval)
	require.True(t, ok)
	assert.True(t, strings.Contains(report, "success_rate=N/A"))
}

func TestTickUptimeFormatting(t *testing.T) {
	r := New(0, func() int { return 0 }, func() bool { return false })
	uptime := time.Hour + 2*time.Minute + 3*time.Second
	report, ok := r.Tick(uptime)
	require.True(t, ok)
	assert.Contains(t, report, "uptime=1h2m3s")
}

func TestSecondTickUsesLastTickNotStart(t *testing.T) {
	r := New(0, func() int { return 0 }, func() bool { return false })
	r.Tick(ReportInterval)

	_, ok := r.Tick(ReportInterval + ReportInterval - time.Millisecond)
	assert.False(t, ok, "the next report must be ReportInterval after the previous one, not after start")

	_, ok = r.Tick(2 * ReportInterval)
	assert.True(t, ok)
}
