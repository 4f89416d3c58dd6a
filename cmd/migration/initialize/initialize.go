package initialize

import (
	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"
)

// InitializeTables applies pending migrations and logs which ones are
// recorded as applied.
func InitializeTables(db database.DB, log logger.Logger) ([]string, error) {
	log = log.Function("InitializeTables")
	log.Info("Initializing database tables")

	if err := db.Migrate(); err != nil {
		return nil, log.Err("failed to apply migrations", err)
	}

	applied, err := db.MigrationStatus()
	if err != nil {
		return nil, log.Err("failed to read migration status", err)
	}

	log.Info("Table initialization complete", "applied", len(applied))
	return applied, nil
}
