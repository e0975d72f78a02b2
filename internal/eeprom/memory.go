package eeprom

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store.
//
// FailWritesFrom and FailReadsFrom inject failures: once set, any access at
// or above that address fails. This reproduces a bus error half-way through
// a multi-byte write.
type MemoryStore struct {
	mu    sync.Mutex
	cells [Size]byte

	failWrites    bool
	failWriteAddr uint16
	failReads     bool
	failReadAddr  uint16
}

// NewMemoryStore returns an erased memory store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	for i := range m.cells {
		m.cells[i] = ErasedValue
	}
	return m
}

// FailWritesFrom makes every write at or above addr fail.
func (m *MemoryStore) FailWritesFrom(addr uint16) {
	m.mu.Lock()
	m.failWrites = true
	m.failWriteAddr = addr
	m.mu.Unlock()
}

// FailReadsFrom makes every read at or above addr fail.
func (m *MemoryStore) FailReadsFrom(addr uint16) {
	m.mu.Lock()
	m.failReads = true
	m.failReadAddr = addr
	m.mu.Unlock()
}

// WriteByte stores value at addr.
func (m *MemoryStore) WriteByte(ctx context.Context, addr uint16, value byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkAddress(addr); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites && addr >= m.failWriteAddr {
		return fmt.Errorf("%w: injected at 0x%04X", ErrWriteFailed, addr)
	}
	m.cells[addr] = value
	return nil
}

// ReadByte loads the byte at addr.
func (m *MemoryStore) ReadByte(ctx context.Context, addr uint16) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkAddress(addr); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failReads && addr >= m.failReadAddr {
		return 0, fmt.Errorf("%w: injected at 0x%04X", ErrReadFailed, addr)
	}
	return m.cells[addr], nil
}
