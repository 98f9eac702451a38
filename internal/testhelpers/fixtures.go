package testhelpers

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/database"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
)

// TestPassword is the password of every account created by CreateTestUser.
const TestPassword = "secreto123"

// CreateTestUser stores an account with TestPassword and no role.
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin stores an account holding the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db, email)
	role := &models.UserRole{UserID: user.ID, Role: models.RoleAdmin}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("failed to grant admin role: %v", err)
	}
	return user
}

// SeedSiteData inserts the default settings rows and menu categories.
func SeedSiteData(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := database.SeedSettings(context.Background(), db); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	if err := database.SeedCategories(context.Background(), db); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}
}
