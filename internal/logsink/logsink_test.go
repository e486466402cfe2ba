package logsink

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogfRespectsMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Warn)

	s.Logf(Info, "should be filtered")
	assert.Empty(t, buf.String())

	s.Logf(Warn, "should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLogfGatedByPauseResume(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Debug)

	s.SetEnabled(false)
	s.Logf(Info, "dropped while paused")
	assert.Empty(t, buf.String())

	s.SetEnabled(true)
	s.Logf(Info, "visible again")
	assert.Contains(t, buf.String(), "visible again")
}

func TestUnconditionalIgnoresPauseGate(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Debug)
	s.SetEnabled(false)

	s.Unconditional("always visible")
	assert.Contains(t, buf.String(), "always visible")
}

func TestPauseResumeIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Debug)

	s.SetEnabled(false)
	s.SetEnabled(false)
	assert.False(t, s.Enabled())

	s.SetEnabled(true)
	s.SetEnabled(true)
	assert.True(t, s.Enabled())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", Debug.String())
	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "WARN", Warn.String())
	assert.Equal(t, "ERROR", Error.String())
}

func TestNewStartsEnabled(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Debug)
	assert.True(t, s.Enabled(), "logging must start enabled, matching power-on default")
}
