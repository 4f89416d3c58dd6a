package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const dialect = "sqlite3"

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies every pending up migration.
func (s *DB) Migrate() error {
	return s.runMigrations(migrate.Up, 0)
}

// Rollback reverts up to steps migrations; zero reverts all of them.
func (s *DB) Rollback(steps int) error {
	return s.runMigrations(migrate.Down, steps)
}

func (s *DB) runMigrations(direction migrate.MigrationDirection, max int) error {
	log := s.log.Function("runMigrations")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.ExecMax(sqlDB, dialect, migrationSource(), direction, max)
	if err != nil {
		return log.Err("failed to apply migrations", err, "direction", direction)
	}

	log.Info("Applied migrations", "count", applied, "direction", direction)
	return nil
}

// MigrationStatus lists the migration ids recorded as applied.
func (s *DB) MigrationStatus() ([]string, error) {
	log := s.log.Function("MigrationStatus")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return nil, log.Err("failed to get database from GORM", err)
	}

	records, err := migrate.GetMigrationRecords(sqlDB, dialect)
	if err != nil {
		return nil, log.Err("failed to read migration records", err)
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.Id)
	}
	return ids, nil
}
