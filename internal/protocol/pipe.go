package protocol

import (
	"context"
	"sync"
)

// pipeBuffer approximates the few bytes of hardware FIFO on each UART side.
const pipeBuffer = 64

// PipeEnd is one side of an in-memory link created by Pipe.
type PipeEnd struct {
	in   <-chan byte
	out  chan<- byte
	done chan struct{}
	once *sync.Once
}

// Pipe returns two connected channel ends. Bytes sent on one end are
// received in order on the other. Closing either end closes both.
func Pipe() (*PipeEnd, *PipeEnd) {
	ab := make(chan byte, pipeBuffer)
	ba := make(chan byte, pipeBuffer)
	done := make(chan struct{})
	once := &sync.Once{}

	a := &PipeEnd{in: ba, out: ab, done: done, once: once}
	b := &PipeEnd{in: ab, out: ba, done: done, once: once}
	return a, b
}

// SendByte queues b for the peer, blocking while the buffer is full.
func (p *PipeEnd) SendByte(ctx context.Context, b byte) error {
	select {
	case <-p.done:
		return ErrChannelClosed
	default:
	}

	select {
	case p.out <- b:
		return nil
	case <-p.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReceiveByte blocks until the peer sends a byte.
func (p *PipeEnd) ReceiveByte(ctx context.Context) (byte, error) {
	select {
	case b := <-p.in:
		return b, nil
	case <-p.done:
		return 0, ErrChannelClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close tears down the link for both ends. Safe to call more than once.
func (p *PipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
