package ack

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendWritesSingleByte(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	s.Send(Success)
	assert.Equal(t, []byte{0xF0}, buf.Bytes())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("port gone") }

func TestSendSwallowsWriteErrors(t *testing.T) {
	s := New(failingWriter{})
	assert.NotPanics(t, func() { s.Send(CRCError) }, "a failed ACK write must never propagate or stall the caller")
}

func TestCodeValues(t *testing.T) {
	assert.Equal(t, Code(0xF0), Success)
	assert.Equal(t, Code(0xF1), CRCError)
	assert.Equal(t, Code(0xF2), InvalidCmd)
	assert.Equal(t, Code(0xF3), ParamError)
	assert.Equal(t, Code(0xF4), Interrupted)
}
