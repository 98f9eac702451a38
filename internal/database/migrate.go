package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
)

// RunMigrations brings the schema up to date. SQLite databases (tests) are
// auto-migrated from the models; PostgreSQL uses the SQL files in migrationsDir.
func RunMigrations(db *gorm.DB, databaseURL, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		logger.InfoLogger.Debug("Using GORM auto-migration for SQLite")
		return AutoMigrate(db)
	}

	m, err := NewMigrator(databaseURL, migrationsDir)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.InfoLogger.WithField("version", version).WithField("dirty", dirty).Info("Database schema is up to date")
	return nil
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}

// NewMigrator returns a golang-migrate instance reading SQL files from migrationsDir.
func NewMigrator(databaseURL, migrationsDir string) (*migrate.Migrate, error) {
	abs, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrate: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.ErrorLogger.WithError(srcErr).Error("failed to close migration source")
	}
	if dbErr != nil {
		logger.ErrorLogger.WithError(dbErr).Error("failed to close migration database")
	}
}
