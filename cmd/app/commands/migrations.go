package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/bizdata/internal/config"
)

// RunMigrations applies the pending migrations of the account and API key schema.
// The memory driver keeps no schema, so there is nothing to apply.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	if dbDriver == config.DriverMemory {
		logger.Info("memory driver selected, no migrations to run")
		return nil
	}

	logger.Info("running database migrations",
		slog.String("driver", dbDriver),
	)

	migrationsPath := "file://migrations/postgresql"
	if dbDriver == config.DriverMySQL {
		migrationsPath = "file://migrations/mysql"
	}

	m, err := migrate.New(migrationsPath, migrationDatabaseURL(dbDriver, dbConnectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationDatabaseURL adds the mysql:// scheme migrate needs to a go-sql-driver DSN.
func migrationDatabaseURL(dbDriver, dbConnectionString string) string {
	if dbDriver == config.DriverMySQL && !strings.HasPrefix(dbConnectionString, "mysql://") {
		return "mysql://" + dbConnectionString
	}
	return dbConnectionString
}
