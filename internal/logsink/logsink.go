// Package logsink wraps the auxiliary outbound-only serial link used for
// diagnostics. It is generalized from the teacher's leveled logger (level
// filter, single mutex, stdlib log.Logger underneath) to a write-only sink
// with no read side and no rotation — the auxiliary channel is a live
// serial line, not a file.
package logsink

import (
	"fmt"
	"io"
	"log"
	"sync"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Sink is the diagnostic log channel. Logf is gated by Enabled; Unconditional
// never is — the three contractually unconditional messages (interrupt
// notice, and the two log pause/resume announcements themselves) always go
// through it.
type Sink struct {
	mu      sync.Mutex
	logger  *log.Logger
	enabled bool
	minimum Level
}

// New wraps w (the auxiliary serial port, or any io.Writer in tests).
// Logging starts enabled, matching the firmware's power-on default.
func New(w io.Writer, minimum Level) *Sink {
	return &Sink{
		logger:  log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		enabled: true,
		minimum: minimum,
	}
}

// SetEnabled implements PAUSE_LOG (false) and RESUME_LOG (true). It does not
// itself emit the state-change announcement — callers log that through
// Unconditional so the transition is visible regardless of which direction
// it moves.
func (s *Sink) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports the current gate state.
func (s *Sink) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Logf emits a gated diagnostic line at the given level.
func (s *Sink) Logf(level Level, format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || level < s.minimum {
		return
	}
	s.logger.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

// Unconditional emits regardless of the pause/resume gate. Used for the
// panic-button interrupt notice and the pause/resume transitions themselves.
func (s *Sink) Unconditional(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Printf("[%s] %s", Info, fmt.Sprintf(format, args...))
}
