package protocol

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
)

// timeoutError is implemented by read errors that only signal "no data yet",
// such as net.Error or the serial adapter's timeout.
type timeoutError interface {
	Timeout() bool
}

// StreamChannel adapts an io.ReadWriter (typically a UART) to Channel.
//
// The underlying reader should be configured with a short read timeout.
// Timeouts are treated as "no byte yet": ReceiveByte keeps polling, which
// preserves the block-forever contract while still honouring ctx.
//
// Thread Safety:
//   - One goroutine may send while another receives.
type StreamChannel struct {
	rw io.ReadWriter

	readMu  sync.Mutex
	readBuf [1]byte

	writeMu sync.Mutex
}

// NewStreamChannel wraps rw as a Channel.
func NewStreamChannel(rw io.ReadWriter) *StreamChannel {
	return &StreamChannel{rw: rw}
}

// SendByte writes a single byte.
func (s *StreamChannel) SendByte(ctx context.Context, b byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.rw.Write([]byte{b})
	if err != nil {
		return mapStreamError(err)
	}
	if n != 1 {
		return io.ErrShortWrite
	}
	return nil
}

// ReceiveByte blocks until one byte is read, ctx is cancelled, or the
// stream reports a non-timeout error.
func (s *StreamChannel) ReceiveByte(ctx context.Context) (byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := s.rw.Read(s.readBuf[:])
		if n == 1 {
			return s.readBuf[0], nil
		}
		if err == nil {
			continue
		}

		var te timeoutError
		if errors.As(err, &te) && te.Timeout() {
			continue
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			continue
		}
		return 0, mapStreamError(err)
	}
}

// mapStreamError converts end-of-stream conditions into ErrChannelClosed.
func mapStreamError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
		return ErrChannelClosed
	}
	return err
}
