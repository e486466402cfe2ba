// Package dispatch implements the policy from spec.md §4.3: a CRC-valid
// payload is split into control-plane opcodes (executed synchronously,
// never queued) and data-plane opcodes (admitted to the bounded queue).
// Control-plane opcodes always get a chance to run before the next frame is
// even parsed, independent of how deep the data-plane backlog is.
package dispatch

import (
	"time"

	"hidbridge/internal/ack"
	"hidbridge/internal/command"
	"hidbridge/internal/logsink"
	"hidbridge/internal/stats"
)

// Dispatcher owns the queue admission policy and the three control-plane
// opcodes. It does not execute data-plane commands — that is the
// executor's job once a command has been admitted.
type Dispatcher struct {
	queue    *command.Queue
	log      *logsink.Sink
	acks     *ack.Sink
	reporter *stats.Reporter
}

func New(queue *command.Queue, log *logsink.Sink, acks *ack.Sink, reporter *stats.Reporter) *Dispatcher {
	return &Dispatcher{queue: queue, log: log, acks: acks, reporter: reporter}
}

// Handle processes one CRC-valid payload (opcode + params) and sends
// exactly one solicited ACK, per spec.md §8 invariant 5. The caller is
// responsible for having already counted the completed frame against
// reporter.RecordPacket; Handle only records which ACK it resolved to.
func (d *Dispatcher) Handle(payload []byte, now time.Duration) {
	if len(payload) == 0 {
		d.log.Logf(logsink.Warn, "dispatch: EMPTY_PAYLOAD")
		d.acks.Send(ack.ParamError)
		d.reporter.RecordError()
		return
	}

	op := command.Opcode(payload[0])
	params := payload[1:]

	if command.IsControlPlane(op) {
		d.handleControlPlane(op)
		d.acks.Send(ack.Success)
		d.reporter.RecordAckSuccess()
		return
	}

	cmd := command.Command{Opcode: op, Params: append([]byte(nil), params...), EnqueueTime: now}
	if !d.queue.Push(cmd) {
		d.log.Logf(logsink.Warn, "dispatch: QUEUE_FULL, dropping opcode 0x%02X", byte(op))
		d.acks.Send(ack.ParamError)
		d.reporter.RecordError()
		return
	}
	d.acks.Send(ack.Success)
	d.reporter.RecordAckSuccess()
}

func (d *Dispatcher) handleControlPlane(op command.Opcode) {
	switch op {
	case command.PauseLog:
		d.log.SetEnabled(false)
		d.log.Unconditional("logging paused")
	case command.ResumeLog:
		d.log.SetEnabled(true)
		d.log.Unconditional("logging resumed")
	case command.ClearQueue:
		d.queue.Clear()
	}
}
