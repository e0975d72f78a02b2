// Package migrations embeds the back node's SQL schema into the binary.
package migrations

import (
	"embed"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
