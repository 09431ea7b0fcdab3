package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/migrations"
)

// migrationURL rewrites a postgres:// connection string for the pgx/v5 migrate driver.
func migrationURL(connString string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(connString, prefix) {
			return "pgx5://" + strings.TrimPrefix(connString, prefix)
		}
	}
	return connString
}

func newMigrator(connString string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(connString))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Warn("Repository: failed to close migrator",
			zap.NamedError("source_error", srcErr),
			zap.NamedError("database_error", dbErr))
	}
}

func MigrateUp(connString string) error {
	logger.Info("Repository: applying migrations")

	m, err := newMigrator(connString)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: migrations failed", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Repository: migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func MigrateDown(connString string) error {
	logger.Info("Repository: rolling back migrations")

	m, err := newMigrator(connString)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: rollback failed", err)
		return fmt.Errorf("roll back migrations: %w", err)
	}
	logger.Info("Repository: migrations rolled back")
	return nil
}
