package main

import (
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/database"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	steps := flag.Int("steps", 0, "Number of migrations to apply; 0 applies all (up) or rolls back one (down)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.Environment != config.Production)

	m, err := database.NewMigrator(cfg.DatabaseURL(), cfg.MigrationsDir)
	if err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to create migrator")
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.ErrorLogger.WithField("source_error", srcErr).WithField("database_error", dbErr).Error("Failed to close migrator")
		}
	}()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		err = m.Steps(-n)
	default:
		logger.ErrorLogger.Fatalf("Unknown direction %q; use up or down", *direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.ErrorLogger.WithError(err).Fatal("Migration failed")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.ErrorLogger.WithError(err).Fatal("Failed to read migration version")
	}
	logger.InfoLogger.WithField("version", version).WithField("dirty", dirty).Infof("Migrations %s complete", *direction)
}
