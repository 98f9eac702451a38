package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

// IAuthService defines the interface for account and session operations
type IAuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, *types.TokenClaims, error)
	SignOut(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IRoleService answers whether an account holds the admin role
type IRoleService interface {
	IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error)
}

// IReservationService defines reservation intake and moderation
type IReservationService interface {
	Create(ctx context.Context, req *types.CreateReservationRequest) (*models.Reservation, error)
	List(ctx context.Context, statusFilter string) ([]*models.Reservation, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.ReservationStatus) (*models.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Options() *types.ReservationOptions
}

// ICatalogService defines menu category and item management
type ICatalogService interface {
	ListCategories(ctx context.Context) ([]*models.MenuCategory, error)
	CreateCategory(ctx context.Context, req *types.CategoryRequest) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *types.CategoryRequest) (*models.MenuCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context) ([]*models.MenuItem, error)
	CreateItem(ctx context.Context, req *types.MenuItemRequest) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req *types.MenuItemRequest) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	AttachItemImage(ctx context.Context, id uuid.UUID, upload *ImageUpload) (*models.MenuItem, error)
	PublicMenu(ctx context.Context) ([]*MenuSection, error)
}

// IGalleryService defines gallery image management
type IGalleryService interface {
	List(ctx context.Context) ([]*models.GalleryImage, error)
	ListPublic(ctx context.Context) ([]*models.GalleryImage, error)
	Create(ctx context.Context, req *types.GalleryImageRequest) (*models.GalleryImage, error)
	CreateFromUpload(ctx context.Context, upload *ImageUpload, altText string) (*models.GalleryImage, error)
	Update(ctx context.Context, id uuid.UUID, req *types.UpdateGalleryImageRequest) (*models.GalleryImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ISettingsService defines site settings access
type ISettingsService interface {
	List(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, values map[string]string) (map[string]string, error)
}

// IStorageService uploads images to object storage and returns their public URL
type IStorageService interface {
	Upload(ctx context.Context, kind UploadKind, upload *ImageUpload) (string, error)
}

// ITokenStore keeps revoked sessions and pending password resets
type ITokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendPasswordResetEmail(user *models.User, resetURL string) error
	SendReservationNotification(reservation *models.Reservation) error
}
