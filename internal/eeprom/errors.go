package eeprom

import "errors"

// Sentinel errors for store operations.
var (
	// ErrWriteFailed indicates a single-byte write did not complete.
	ErrWriteFailed = errors.New("eeprom: write failed")

	// ErrReadFailed indicates a single-byte read did not complete.
	ErrReadFailed = errors.New("eeprom: read failed")

	// ErrAddressOutOfRange indicates an address beyond MaxAddress.
	ErrAddressOutOfRange = errors.New("eeprom: address out of range")
)
