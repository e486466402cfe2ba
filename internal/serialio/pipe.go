package serialio

import (
	"bytes"
	"io"
	"sync"
)

// Pipe is an in-memory io.ReadWriter standing in for a real serial port.
// cmd/bridge uses it as the primary link under -simulate.
type Pipe struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func NewPipe() *Pipe { return &Pipe{} }

func (p *Pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Write(b)
}

func (p *Pipe) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf.Len() == 0 {
		return 0, io.EOF
	}
	return p.buf.Read(b)
}

// Bytes returns a copy of everything written so far, for test assertions.
func (p *Pipe) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.buf.Bytes()...)
}

// Close satisfies io.Closer; a Pipe owns no OS resources.
func (p *Pipe) Close() error { return nil }
