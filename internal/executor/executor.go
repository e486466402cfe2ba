// Package executor dequeues and dispatches data-plane commands and owns the
// single in-flight TimedAction slot. It never blocks: a "hold for N ms"
// primitive is a deadline written into the slot, polled by the main loop,
// not a sleep — see spec.md §5 and §9 for why the blocking variant is
// non-conforming.
package executor

import (
	"encoding/binary"
	"time"

	"hidbridge/internal/command"
	"hidbridge/internal/hid"
	"hidbridge/internal/logsink"
	"hidbridge/internal/panicbutton"
)

// Kind names which half of the HID surface a TimedAction is holding.
type Kind int

const (
	KindMouse Kind = iota
	KindKeyboard
)

// TimedAction is the at-most-one in-flight timed hold. Active reports
// whether the firmware currently holds target on its own initiative.
type TimedAction struct {
	Active   bool
	Kind     Kind
	Target   byte
	Start    time.Duration
	Duration time.Duration
}

// Executor coordinates the queue, the HID device, and the TimedAction slot.
type Executor struct {
	queue   *command.Queue
	device  hid.Device
	log     *logsink.Sink
	pending *panicbutton.Pending

	timed TimedAction
}

func New(queue *command.Queue, device hid.Device, log *logsink.Sink, pending *panicbutton.Pending) *Executor {
	return &Executor{queue: queue, device: device, log: log, pending: pending}
}

// TimedActive reports whether a TimedAction is currently held, the guard
// that keeps the executor from starting a second one and that stats.Snapshot
// surfaces to the monitor.
func (e *Executor) TimedActive() bool { return e.timed.Active }

// Tick pops and dispatches at most one queued command, but only when no
// TimedAction is active and no interrupt is pending — guard (i)-(iii) from
// spec.md §4.4. It returns false when nothing was dispatched.
func (e *Executor) Tick(now time.Duration) bool {
	if e.timed.Active || e.pending.IsSet() {
		return false
	}
	cmd, ok := e.queue.Pop()
	if !ok {
		return false
	}
	e.dispatch(cmd, now)
	return true
}

func (e *Executor) dispatch(cmd command.Command, now time.Duration) {
	min, max, known := command.Arity(cmd.Opcode)
	if !known {
		e.log.Logf(logsink.Warn, "executor: dropping unknown opcode 0x%02X", byte(cmd.Opcode))
		return
	}
	if len(cmd.Params) < min || len(cmd.Params) > max {
		e.log.Logf(logsink.Warn, "executor: dropping opcode 0x%02X, arity mismatch (got %d, want %d..%d)",
			byte(cmd.Opcode), len(cmd.Params), min, max)
		return
	}

	p := cmd.Params
	switch cmd.Opcode {
	case command.MouseMove:
		e.device.MouseMove(int8(p[0]), int8(p[1]), int8(p[2]))

	case command.MousePress:
		e.device.MousePress(p[0])

	case command.MouseRelease:
		e.device.MouseRelease(p[0])

	case command.MouseClick:
		e.device.MouseClick(p[0])

	case command.MousePressTimed:
		button := p[0]
		dur := time.Duration(binary.BigEndian.Uint16(p[1:3])) * time.Millisecond
		e.device.MousePress(button)
		e.timed = TimedAction{Active: true, Kind: KindMouse, Target: button, Start: now, Duration: dur}

	case command.KBPress:
		e.device.KeyPress(p[0])

	case command.KBRelease:
		e.device.KeyRelease(p[0])

	case command.KBWrite:
		e.device.KeyWrite(p[0])

	case command.KBReleaseAll:
		e.device.KeyReleaseAll()

	case command.KBPrint:
		for _, b := range p {
			if e.pending.IsSet() {
				break
			}
			e.device.KeyWrite(b)
		}

	case command.KBPressTimed:
		key := p[0]
		dur := time.Duration(binary.BigEndian.Uint16(p[1:3])) * time.Millisecond
		e.device.KeyPress(key)
		e.timed = TimedAction{Active: true, Kind: KindKeyboard, Target: key, Start: now, Duration: dur}
	}
}

// PollTimedAction checks the slot's deadline and releases its target when
// expired. The main loop calls this every iteration; it is the sole place
// a TimedAction ends outside of interrupt servicing.
func (e *Executor) PollTimedAction(now time.Duration) {
	if !e.timed.Active {
		return
	}
	if now-e.timed.Start < e.timed.Duration {
		return
	}
	e.releaseTimed()
}

func (e *Executor) releaseTimed() {
	switch e.timed.Kind {
	case KindMouse:
		e.device.MouseRelease(e.timed.Target)
	case KindKeyboard:
		e.device.KeyRelease(e.timed.Target)
	}
	e.timed = TimedAction{}
}

// ForceReleaseTimed is called by interrupt servicing: release whatever is
// held (if anything) and clear the slot, regardless of its deadline.
func (e *Executor) ForceReleaseTimed() {
	if !e.timed.Active {
		return
	}
	e.releaseTimed()
}
