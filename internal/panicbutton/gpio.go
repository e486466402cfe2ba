// Real GPIO backend, grounded on the same periph.io edge-wait pattern used
// to read hardware buttons: configure the pin for a pull-up input armed on
// the edge of interest, then block a dedicated goroutine on WaitForEdge.
package panicbutton

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
)

// GPIO reads panic-button edges off a real input pin.
type GPIO struct {
	pin    gpio.PinIn
	events chan struct{}
	done   chan struct{}
}

// OpenGPIO initializes periph's host drivers and arms pin for a falling
// edge with an internal pull-up, per the spec's hardware description.
func OpenGPIO(pin gpio.PinIn) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("panicbutton: init host drivers: %w", err)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("panicbutton: configure pin: %w", err)
	}

	g := &GPIO{
		pin:    pin,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go g.run()
	return g, nil
}

func (g *GPIO) run() {
	for {
		select {
		case <-g.done:
			close(g.events)
			return
		default:
		}
		if g.pin.WaitForEdge(-1) {
			select {
			case g.events <- struct{}{}:
			default:
				// a debounce-window coalesce already pending; drop.
			}
		}
	}
}

func (g *GPIO) Events() <-chan struct{} { return g.events }

func (g *GPIO) Close() error {
	close(g.done)
	return nil
}
