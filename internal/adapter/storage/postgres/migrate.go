package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationSource returns the embedded schema migrations.
func MigrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies migrations in the given direction over the pool.
// steps <= 0 means every pending migration.
func Migrate(pool *pgxpool.Pool, dir migrate.MigrationDirection, steps int) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return MigrateDB(db, dir, steps)
}

// MigrateDB is Migrate over a database/sql handle.
func MigrateDB(db *sql.DB, dir migrate.MigrationDirection, steps int) (int, error) {
	if steps < 0 {
		steps = 0
	}
	n, err := migrate.ExecMax(db, "postgres", MigrationSource(), dir, steps)
	if err != nil {
		return n, fmt.Errorf("running migrations: %w", err)
	}
	return n, nil
}
