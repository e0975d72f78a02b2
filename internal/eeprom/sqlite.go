package eeprom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists cells in the eeprom_cells table, one row per
// written address. Missing rows read back as ErasedValue.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store on an open, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// WriteByte upserts the cell at addr.
func (s *SQLiteStore) WriteByte(ctx context.Context, addr uint16, value byte) error {
	if err := checkAddress(addr); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO eeprom_cells (address, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(address) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		int(addr), int(value), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// ReadByte loads the cell at addr.
func (s *SQLiteStore) ReadByte(ctx context.Context, addr uint16) (byte, error) {
	if err := checkAddress(addr); err != nil {
		return 0, err
	}

	var value int
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM eeprom_cells WHERE address = ?", int(addr),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErasedValue, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return byte(value), nil //nolint:gosec // column is constrained to 0..255
}
