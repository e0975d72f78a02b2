package eeprom

import (
	"context"
	"fmt"
)

// Geometry of the emulated device.
const (
	// Size is the number of addressable bytes (24C16: 8 blocks of 256).
	Size = 2048

	// MaxAddress is the highest valid address.
	MaxAddress uint16 = Size - 1

	// ErasedValue is what an unwritten cell reads back as.
	ErasedValue byte = 0xFF
)

// Store is a byte-addressable persistent memory.
type Store interface {
	// WriteByte stores one byte at addr.
	WriteByte(ctx context.Context, addr uint16, value byte) error
	// ReadByte loads the byte at addr. Unwritten cells read as ErasedValue.
	ReadByte(ctx context.Context, addr uint16) (byte, error)
}

// WriteString writes data starting at addr, one byte at a time.
//
// It stops at the first failing byte. Bytes before the failure stay
// written; the returned error names the failing address.
//
// Parameters:
//   - ctx: Context for cancellation
//   - s: Target store
//   - addr: First address to write
//   - data: Bytes to write
//
// Returns:
//   - error: nil if every byte was written
func WriteString(ctx context.Context, s Store, addr uint16, data []byte) error {
	for i, b := range data {
		a, err := offset(addr, i)
		if err != nil {
			return err
		}
		if err := s.WriteByte(ctx, a, b); err != nil {
			return fmt.Errorf("writing byte %d at 0x%04X: %w", i, a, err)
		}
	}
	return nil
}

// ReadString reads n bytes starting at addr, one byte at a time.
//
// On failure it returns the bytes read so far together with the error.
func ReadString(ctx context.Context, s Store, addr uint16, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := range n {
		a, err := offset(addr, i)
		if err != nil {
			return out, err
		}
		b, err := s.ReadByte(ctx, a)
		if err != nil {
			return out, fmt.Errorf("reading byte %d at 0x%04X: %w", i, a, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// offset returns addr+i, rejecting addresses past the end of the device.
func offset(addr uint16, i int) (uint16, error) {
	a := int(addr) + i
	if a > int(MaxAddress) {
		return 0, fmt.Errorf("%w: 0x%04X", ErrAddressOutOfRange, a)
	}
	return uint16(a), nil //nolint:gosec // bounded by MaxAddress above
}

// checkAddress validates a single address.
func checkAddress(addr uint16) error {
	if addr > MaxAddress {
		return fmt.Errorf("%w: 0x%04X", ErrAddressOutOfRange, addr)
	}
	return nil
}
