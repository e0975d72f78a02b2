// Package eeprom provides the byte-addressable persistent store used by the
// back node to keep the enrolled password across restarts.
//
// The store mirrors a 2 KiB serial EEPROM: every operation moves a single
// byte and reports success or failure, and there is no transactionality
// beyond one byte. WriteString and ReadString loop over single-byte calls
// and abort at the first failing byte, leaving whatever was already written
// in place. Callers do not retry or roll back.
//
// Implementations:
//
//   - SQLiteStore persists cells in the eeprom_cells table
//   - MemoryStore keeps cells in memory and can inject failures for tests
package eeprom
