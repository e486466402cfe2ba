// Package hid defines the capability surface the bridge expects from the
// USB target's HID driver: mouse and keyboard reports only. The bridge
// never talks to the underlying USB descriptors itself — it is the job of
// whichever Device implementation is wired in.
package hid

// Device is the external collaborator described in the spec: it exposes
// only the capabilities the executor needs, nothing about how reports are
// encoded or transmitted.
type Device interface {
	MouseMove(x, y, wheel int8)
	MousePress(buttons byte)
	MouseRelease(buttons byte)
	MouseClick(buttons byte)

	KeyPress(code byte)
	KeyRelease(code byte)
	KeyWrite(code byte)
	KeyReleaseAll()

	Close() error
}

// AllMouseButtons is the mask released when servicing a panic-button
// interrupt: LEFT|RIGHT|MIDDLE, per the interrupt handler's safety-stop
// responsibilities.
const AllMouseButtons = 0x01 | 0x02 | 0x04
