package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
)

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// IsAdmin looks the role up on every call; results are not cached.
func (s *RoleService) IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", accountID, models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up role: %w", err)
	}
	return count > 0, nil
}

// GrantAdmin gives the account the admin role. Granting twice is a no-op.
func (s *RoleService) GrantAdmin(ctx context.Context, accountID uuid.UUID) error {
	role := models.UserRole{UserID: accountID, Role: models.RoleAdmin}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", accountID, models.RoleAdmin).
		FirstOrCreate(&role).Error
	if err != nil {
		return fmt.Errorf("failed to grant admin role: %w", err)
	}
	return nil
}

func (s *RoleService) RevokeAdmin(ctx context.Context, accountID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", accountID, models.RoleAdmin).
		Delete(&models.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke admin role: %w", err)
	}
	return nil
}
