package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

type GalleryService struct {
	db      *gorm.DB
	storage IStorageService
}

func NewGalleryService(db *gorm.DB, storage IStorageService) *GalleryService {
	return &GalleryService{
		db:      db,
		storage: storage,
	}
}

// List returns every gallery image in display order.
func (s *GalleryService) List(ctx context.Context) ([]*models.GalleryImage, error) {
	return s.list(s.db.WithContext(ctx))
}

// ListPublic returns only the images visible on the public site.
func (s *GalleryService) ListPublic(ctx context.Context) ([]*models.GalleryImage, error) {
	return s.list(s.db.WithContext(ctx).Where("is_active = ?", true))
}

func (s *GalleryService) list(query *gorm.DB) ([]*models.GalleryImage, error) {
	var images []*models.GalleryImage
	if err := query.Order("sort_order ASC").Order("created_at ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	return images, nil
}

func (s *GalleryService) Get(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := s.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("gallery image %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get gallery image: %w", err)
	}
	return &image, nil
}

// Create adds an image that is already hosted elsewhere. New images go to
// the end of the gallery.
func (s *GalleryService) Create(ctx context.Context, req *types.GalleryImageRequest) (*models.GalleryImage, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	if !ValidImageReference(imageURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidImage, imageURL)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.GalleryImage{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count gallery images: %w", err)
	}

	image := &models.GalleryImage{
		ImageURL:  imageURL,
		AltText:   optionalText(req.AltText),
		SortOrder: int(count),
		IsActive:  boolOr(req.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to create gallery image: %w", err)
	}
	return image, nil
}

// CreateFromUpload stores the file first and only then records the image,
// so a failed upload never leaves a row behind.
func (s *GalleryService) CreateFromUpload(ctx context.Context, upload *ImageUpload, altText string) (*models.GalleryImage, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: storage is not configured", ErrUploadFailed)
	}

	imageURL, err := s.storage.Upload(ctx, UploadKindGallery, upload)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, &types.GalleryImageRequest{
		ImageURL: imageURL,
		AltText:  altText,
	})
}

// Update changes only the fields present in req.
func (s *GalleryService) Update(ctx context.Context, id uuid.UUID, req *types.UpdateGalleryImageRequest) (*models.GalleryImage, error) {
	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.AltText != nil {
		updates["alt_text"] = optionalText(*req.AltText)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return image, nil
	}

	if err := s.db.WithContext(ctx).Model(image).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update gallery image: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.GalleryImage{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete gallery image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("gallery image %s: %w", id, ErrNotFound)
	}
	return nil
}
