//go:build !mips && !mipsle

// USB target backend: sends HID boot-protocol-shaped reports over a USB
// bulk OUT endpoint, bypassing any kernel HID gadget driver. Mirrors the
// claim-on-open / release-on-close discipline used for the ASIC USB link
// this bridge's device package was modeled on.
package hid

import (
	"fmt"

	"github.com/google/gousb"
)

// Report byte layout mirrors the USB HID boot mouse/keyboard reports: this
// is intentionally simple, not a full report-descriptor negotiation, since
// the target side is assumed to already be enumerated as a boot-protocol
// HID device.
const (
	reportMouse    = 0x01
	reportKeyboard = 0x02
)

// USBTarget drives a real USB HID target device over a bulk endpoint.
type USBTarget struct {
	ctx   *gousb.Context
	dev   *gousb.Device
	cfg   *gousb.Config
	intf  *gousb.Interface
	epOut *gousb.OutEndpoint
}

// OpenUSBTarget opens the target device by VID/PID and claims its default
// interface and first OUT endpoint.
func OpenUSBTarget(vid, pid gousb.ID) (*USBTarget, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(vid, pid)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open USB HID target: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("USB HID target not found (VID:%s PID:%s)", vid, pid)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("set USB config: %w", err)
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("claim USB interface: %w", err)
	}

	epOut, err := intf.OutEndpoint(1)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("open OUT endpoint: %w", err)
	}

	return &USBTarget{ctx: ctx, dev: dev, cfg: cfg, intf: intf, epOut: epOut}, nil
}

func (t *USBTarget) send(report []byte) {
	// Best-effort: HID output is a side channel for the host's convenience,
	// not a channel the pipeline can retry on (see logsink for the same
	// policy on the log side). A write failure here never blocks the
	// executor.
	_, _ = t.epOut.Write(report)
}

func (t *USBTarget) MouseMove(x, y, wheel int8) {
	t.send([]byte{reportMouse, 0x00, byte(x), byte(y), byte(wheel)})
}

func (t *USBTarget) MousePress(buttons byte) {
	t.send([]byte{reportMouse, buttons, 0, 0, 0})
}

func (t *USBTarget) MouseRelease(buttons byte) {
	t.send([]byte{reportMouse, 0x00, 0, 0, 0})
}

func (t *USBTarget) MouseClick(buttons byte) {
	t.MousePress(buttons)
	t.MouseRelease(buttons)
}

func (t *USBTarget) KeyPress(code byte) {
	t.send([]byte{reportKeyboard, code})
}

func (t *USBTarget) KeyRelease(code byte) {
	t.send([]byte{reportKeyboard, 0x00})
}

func (t *USBTarget) KeyWrite(code byte) {
	t.KeyPress(code)
	t.KeyRelease(code)
}

func (t *USBTarget) KeyReleaseAll() {
	t.send([]byte{reportKeyboard, 0x00})
}

// Close releases the interface and context, mirroring the ASIC driver's
// teardown order: interface, then config, then device, then context.
func (t *USBTarget) Close() error {
	if t.intf != nil {
		t.intf.Close()
	}
	if t.cfg != nil {
		t.cfg.Close()
	}
	if t.dev != nil {
		t.dev.Close()
	}
	if t.ctx != nil {
		t.ctx.Close()
	}
	return nil
}
