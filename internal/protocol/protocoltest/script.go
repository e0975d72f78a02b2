// Package protocoltest provides a scripted peer for protocol conformance tests.
//
// A Script plays back a fixed byte sequence as if the peer node had sent it
// and records everything the node under test sends. When the script runs out
// ReceiveByte returns ErrExhausted instead of blocking, so a test drives a
// node's state machine for a finite number of steps and then inspects the
// bytes it produced.
package protocoltest

import (
	"context"
	"errors"
	"sync"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// ErrExhausted is returned by ReceiveByte once every scripted byte was consumed.
var ErrExhausted = errors.New("protocoltest: script exhausted")

// Script is a protocol.Channel backed by a fixed input script.
type Script struct {
	mu   sync.Mutex
	in   []byte
	pos  int
	sent []byte
}

// New creates a script that will deliver the given chunks in order.
func New(chunks ...[]byte) *Script {
	s := &Script{}
	for _, c := range chunks {
		s.in = append(s.in, c...)
	}
	return s
}

// Append adds more bytes to the end of the script.
func (s *Script) Append(chunks ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.in = append(s.in, c...)
	}
}

// SendByte records b.
func (s *Script) SendByte(ctx context.Context, b byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, b)
	return nil
}

// ReceiveByte returns the next scripted byte or ErrExhausted.
func (s *Script) ReceiveByte(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.in) {
		return 0, ErrExhausted
	}
	b := s.in[s.pos]
	s.pos++
	return b, nil
}

// Sent returns a copy of every byte sent so far.
func (s *Script) Sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// Remaining returns the number of scripted bytes not yet consumed.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.in) - s.pos
}

// Synced returns Sync followed by the wire form of a password, the way the
// front node submits a capture.
func Synced(password string) []byte {
	out := []byte{protocol.Sync}
	out = append(out, password...)
	return append(out, protocol.Terminator)
}

// Bytes is a readability helper for building scripts.
func Bytes(b ...byte) []byte { return b }

var _ protocol.Channel = (*Script)(nil)
