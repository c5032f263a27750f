package commands

import (
	"fmt"
	"log/slog"

	"github.com/allisson/nexusdb/internal/database"
)

// RunMigrations applies every pending migration embedded in the binary for driver.
// Returns nil when the schema is already current.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	if _, err := database.MigrationsDir(driver); err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	db, err := database.Connect(database.Config{
		Driver:             driver,
		ConnectionString:   connectionString,
		MaxOpenConnections: 1,
		MaxIdleConnections: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database", slog.Any("error", closeErr))
		}
	}()

	if err := database.Migrate(db, driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
