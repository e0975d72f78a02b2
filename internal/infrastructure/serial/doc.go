// Package serial opens the UART that links the front and back nodes.
//
// It wraps github.com/goburrow/serial with the door lock's link settings
// (9600 8N1 by default) and a short per-read timeout. Read timeouts are
// reported as errors whose Timeout method returns true, which
// protocol.StreamChannel treats as "no byte yet" so that callers can still
// cancel a blocking receive through their context.
//
// Usage:
//
//	port, err := serial.Open(cfg.Serial)
//	if err != nil {
//	    return err
//	}
//	defer port.Close()
//
//	ch := protocol.NewStreamChannel(port)
package serial
