// Package panicbutton models the hardware panic-button interrupt source
// described in the spec: a single digital input with internal pull-up,
// interrupt on falling edge, 50ms debounce. The debounce goroutine plays
// the role of the hardware ISR — minimal work, timestamp compare, signal —
// and the main loop is the sole consumer of the resulting events.
package panicbutton

import (
	"sync/atomic"
	"time"
)

// DebounceWindow matches spec.md's 50ms debounce window.
const DebounceWindow = 50 * time.Millisecond

// Source is anything that can deliver panic-button edge events. Both the
// real GPIO backend and the Simulated test backend satisfy it.
type Source interface {
	Events() <-chan struct{}
	Close() error
}

// Pending is the shared interrupt_pending flag: written by the debounce
// goroutine (ISR-equivalent), read-cleared by the main loop. atomic.Bool
// is the Go analogue of a volatile single-byte flag the compiler cannot
// elide accesses to.
type Pending struct {
	flag atomic.Bool
}

func (p *Pending) Set()          { p.flag.Store(true) }
func (p *Pending) Clear()        { p.flag.Store(false) }
func (p *Pending) IsSet() bool   { return p.flag.Load() }

// Watch drains src's edge events into Pending, debouncing in the same
// dedicated-goroutine style as the GPIO backend's own edge-wait loop. It
// runs until src is closed. last_press_ms, the ISR-private debounce
// timestamp, lives only in this goroutine's stack, never shared.
func Watch(src Source, pending *Pending) {
	var lastPress time.Time
	for range src.Events() {
		now := time.Now()
		if lastPress.IsZero() || now.Sub(lastPress) > DebounceWindow {
			lastPress = now
			pending.Set()
		}
	}
}
