package main

import (
	"context"
	"errors"
	"flag"
	"strings"

	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/database"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
)

func main() {
	adminEmail := flag.String("admin-email", "", "Email of an account to create (if missing) and grant the admin role")
	adminPassword := flag.String("admin-password", "", "Password used when the admin account has to be created")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.Environment != config.Production)

	ctx := context.Background()

	db, err := database.New(cfg)
	if err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.DatabaseURL(), cfg.MigrationsDir); err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedSettings(ctx, db); err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to seed settings")
	}
	if err := database.SeedCategories(ctx, db); err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to seed categories")
	}
	logger.InfoLogger.Info("Seeded settings and menu categories")

	if *adminEmail == "" {
		return
	}
	if err := seedAdmin(ctx, db, cfg, *adminEmail, *adminPassword); err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to seed admin account")
	}
	logger.InfoLogger.WithField("email", *adminEmail).Info("Admin account ready")
}

func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, email, password string) error {
	auth := service.NewAuthService(db, cfg.JWTSecret, service.NewMemoryTokenStore(), service.NewEmailService(cfg.SMTP), cfg.FrontendURL)

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := auth.SignUp(ctx, email, password)
		if err != nil {
			return err
		}
		user = *created
	case err != nil:
		return err
	}

	return service.NewRoleService(db).GrantAdmin(ctx, user.ID)
}
