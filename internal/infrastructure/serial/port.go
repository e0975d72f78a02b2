package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	goserial "github.com/goburrow/serial"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/config"
)

// defaultReadTimeout applies when the configured timeout is zero. A zero
// timeout in goburrow/serial blocks forever, which would make reads
// uncancellable.
const defaultReadTimeout = 100 * time.Millisecond

// ErrOpenFailed is returned when the device cannot be opened.
var ErrOpenFailed = errors.New("serial: open failed")

// openFunc opens a device. Replaced in tests.
var openFunc = func(c *goserial.Config) (io.ReadWriteCloser, error) {
	return goserial.Open(c)
}

// Port is an open UART.
//
// Thread Safety:
//   - One goroutine may read while another writes.
type Port struct {
	rwc     io.ReadWriteCloser
	address string
}

// timeoutError marks a read that returned no data before the deadline.
type timeoutError struct{ address string }

func (e timeoutError) Error() string   { return "serial: read timeout on " + e.address }
func (e timeoutError) Timeout() bool   { return true }
func (e timeoutError) Temporary() bool { return true }

// Open opens the configured device.
//
// Parameters:
//   - cfg: Serial section of config.yaml
//
// Returns:
//   - *Port: Open port, ready to wrap in protocol.NewStreamChannel
//   - error: ErrOpenFailed wrapping the driver error
func Open(cfg config.SerialConfig) (*Port, error) {
	sc := driverConfig(cfg)

	rwc, err := openFunc(sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, cfg.Device, err)
	}
	return &Port{rwc: rwc, address: cfg.Device}, nil
}

// driverConfig translates config.SerialConfig to the driver's settings.
func driverConfig(cfg config.SerialConfig) *goserial.Config {
	timeout := time.Duration(cfg.ReadTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	return &goserial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  timeout,
	}
}

// Read reads from the device, converting the driver's timeout into an
// error with Timeout() == true.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.rwc.Read(b)
	if err != nil && errors.Is(err, goserial.ErrTimeout) {
		return n, timeoutError{address: p.address}
	}
	return n, err
}

// Write writes to the device.
func (p *Port) Write(b []byte) (int, error) {
	return p.rwc.Write(b)
}

// Close closes the device.
func (p *Port) Close() error {
	if err := p.rwc.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", p.address, err)
	}
	return nil
}

// Address returns the device path.
func (p *Port) Address() string {
	return p.address
}
