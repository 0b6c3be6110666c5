package repo

import (
	"embed"

	"github.com/Temutjin2k/running-app/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the schema migrations of the running service in order.
func Migrations() ([]postgres.Migration, error) {
	return postgres.LoadMigrations(migrationsFS, "migrations")
}
