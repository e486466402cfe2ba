// Package interrupt implements the main loop's top-of-iteration servicing
// of a pending panic-button event: the bounded-latency safety stop that
// works regardless of queue depth or in-flight TimedAction duration.
package interrupt

import (
	"hidbridge/internal/ack"
	"hidbridge/internal/command"
	"hidbridge/internal/executor"
	"hidbridge/internal/hid"
	"hidbridge/internal/logsink"
	"hidbridge/internal/panicbutton"
)

// Servicer holds everything interrupt servicing needs to touch.
type Servicer struct {
	pending *panicbutton.Pending
	queue   *command.Queue
	exec    *executor.Executor
	device  hid.Device
	log     *logsink.Sink
	acks    *ack.Sink
}

func New(pending *panicbutton.Pending, queue *command.Queue, exec *executor.Executor, device hid.Device, log *logsink.Sink, acks *ack.Sink) *Servicer {
	return &Servicer{pending: pending, queue: queue, exec: exec, device: device, log: log, acks: acks}
}

// ServiceIfPending runs the six-step servicing sequence from spec.md §4.5
// when interrupt_pending is set, in order: log, clear queue, release HID
// state, clear TimedAction, send ACK_INTERRUPTED, clear the flag. It is a
// no-op otherwise. Call this at the very top of every main-loop iteration,
// before parsing or executing anything.
func (s *Servicer) ServiceIfPending() {
	if !s.pending.IsSet() {
		return
	}

	s.log.Unconditional("panic button: interrupt serviced")
	s.queue.Clear()
	s.device.KeyReleaseAll()
	s.device.MouseRelease(hid.AllMouseButtons)
	s.exec.ForceReleaseTimed()
	s.acks.Send(ack.Interrupted)
	s.pending.Clear()
}
