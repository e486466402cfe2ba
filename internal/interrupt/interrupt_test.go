package interrupt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidbridge/internal/ack"
	"hidbridge/internal/command"
	"hidbridge/internal/executor"
	"hidbridge/internal/hid"
	"hidbridge/internal/logsink"
	"hidbridge/internal/panicbutton"
)

func newTestServicer() (*Servicer, *command.Queue, *executor.Executor, *hid.Recorder, *panicbutton.Pending, *bytes.Buffer) {
	queue := &command.Queue{}
	device := hid.NewRecorder()
	log := logsink.New(&bytes.Buffer{}, logsink.Debug)
	pending := &panicbutton.Pending{}
	exec := executor.New(queue, device, log, pending)

	var ackBuf bytes.Buffer
	acks := ack.New(&ackBuf)
	return New(pending, queue, exec, device, log, acks), queue, exec, device, pending, &ackBuf
}

func TestServiceIfPendingNoOpWhenNotSet(t *testing.T) {
	s, queue, _, device, _, ackBuf := newTestServicer()
	queue.Push(command.Command{Opcode: command.MouseClick, Params: []byte{command.ButtonLeft}})

	s.ServiceIfPending()

	assert.Equal(t, 1, queue.Len(), "servicing must be a no-op when no interrupt is pending")
	assert.Empty(t, device.Calls())
	assert.Empty(t, ackBuf.Bytes())
}

func TestServiceIfPendingClearsQueueAndReleasesState(t *testing.T) {
	s, queue, exec, device, pending, ackBuf := newTestServicer()
	queue.Push(command.Command{Opcode: command.MouseClick, Params: []byte{command.ButtonLeft}})
	queue.Push(command.Command{Opcode: command.KBPress, Params: []byte{0x04}})
	exec.Tick(0) // starts nothing timed, just to exercise a non-empty state before the interrupt

	pending.Set()
	s.ServiceIfPending()

	assert.True(t, queue.Empty(), "queue must be cleared on interrupt")
	assert.False(t, pending.IsSet(), "pending flag must be cleared after servicing")
	assert.Equal(t, []byte{byte(ack.Interrupted)}, ackBuf.Bytes())

	methods := make([]string, len(device.Calls()))
	for i, c := range device.Calls() {
		methods[i] = c.Method
	}
	assert.Contains(t, methods, "kb.release_all")
	assert.Contains(t, methods, "mouse.release")
}

func TestServiceIfPendingForceReleasesActiveTimedAction(t *testing.T) {
	s, queue, exec, device, pending, _ := newTestServicer()
	queue.Push(command.Command{Opcode: command.MousePressTimed, Params: []byte{command.ButtonLeft, 0x03, 0xE8}})
	require.True(t, exec.Tick(0))
	require.True(t, exec.TimedActive())

	pending.Set()
	s.ServiceIfPending()

	assert.False(t, exec.TimedActive(), "an in-flight TimedAction must be force-released by interrupt servicing")

	last, ok := device.Last()
	require.True(t, ok)
	assert.Contains(t, []string{"mouse.release"}, last.Method)
}

func TestServiceIfPendingLeavesCleanStateForNextFrame(t *testing.T) {
	s, queue, exec, _, pending, _ := newTestServicer()
	pending.Set()
	s.ServiceIfPending()

	assert.True(t, queue.Empty())
	assert.False(t, exec.TimedActive())
	assert.False(t, pending.IsSet())

	queue.Push(command.Command{Opcode: command.MouseClick, Params: []byte{command.ButtonLeft}})
	assert.True(t, exec.Tick(0), "the pipeline must accept new commands immediately after servicing")
}
