//go:build linux

// Package serialio wraps the two independent byte-serial links described in
// spec.md §6: the primary command/ACK link and the auxiliary outbound-only
// log link, both at 115200 8N1. It wraps github.com/daedaluz/goserial the
// same way the port is configured for raw byte-reliable transport: open,
// force raw mode, pin the baud rate, done.
package serialio

import (
	"fmt"

	serial "github.com/daedaluz/goserial"
)

// BaudRate is pinned per spec.md §9's open question; a build-time constant
// is the implementation's way of exposing the choice.
const BaudRate = serial.B115200

// Port is a raw 8N1 serial line, either the primary command/ACK link or the
// auxiliary log link — the wire framing distinguishes them, not the
// transport.
type Port struct {
	p *serial.Port
}

// Open configures name for raw 8N1 transport at BaudRate, matching the
// reference's "byte-reliable but unframed full-duplex link" contract.
func Open(name string) (*Port, error) {
	p, err := serial.Open(name, serial.NewOptions())
	if err != nil {
		return nil, fmt.Errorf("serialio: open %s: %w", name, err)
	}
	if err := p.MakeRaw(); err != nil {
		p.Close()
		return nil, fmt.Errorf("serialio: make raw %s: %w", name, err)
	}
	attrs, err := p.GetAttr2()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("serialio: get attrs %s: %w", name, err)
	}
	attrs.SetSpeed(BaudRate)
	if err := p.SetAttr2(serial.TCSANOW, attrs); err != nil {
		p.Close()
		return nil, fmt.Errorf("serialio: set speed %s: %w", name, err)
	}
	return &Port{p: p}, nil
}

func (s *Port) Read(b []byte) (int, error)  { return s.p.Read(b) }
func (s *Port) Write(b []byte) (int, error) { return s.p.Write(b) }
func (s *Port) Close() error                { return s.p.Close() }
