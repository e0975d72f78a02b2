package telemetry

import "github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"

// Fanout delivers every event to each observer in order.
type Fanout []protocol.Observer

// Observe forwards e to every non-nil observer.
func (f Fanout) Observe(e protocol.Event) {
	for _, o := range f {
		if o != nil {
			o.Observe(e)
		}
	}
}
