// Package database provides SQLite connectivity for the back node.
//
// The back node keeps two kinds of durable state in one SQLite file:
//   - eeprom_cells: the byte-addressable store holding the enrolled password
//   - audit_logs: enrollment, authentication, door and alarm history
//
// The file is opened in WAL mode with a busy timeout and a single writer
// connection, and schema changes are applied from embedded migration files.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
