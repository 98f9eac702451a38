package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

// MaxItemPrice is the largest price the numeric(10,2) price column holds.
const MaxItemPrice = 99999999.99

// MenuSection is one category of the public menu with its visible items.
type MenuSection struct {
	Slug  string             `json:"slug"`
	Label string             `json:"label"`
	Items []*models.MenuItem `json:"items"`
}

type CatalogService struct {
	db      *gorm.DB
	storage IStorageService
}

func NewCatalogService(db *gorm.DB, storage IStorageService) *CatalogService {
	return &CatalogService{
		db:      db,
		storage: storage,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.MenuCategory, error) {
	var categories []*models.MenuCategory
	if err := s.db.WithContext(ctx).Order("sort_order ASC").Order("label ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// CreateCategory derives the slug from the label. The slug is fixed from
// here on; later label edits do not touch it.
func (s *CatalogService) CreateCategory(ctx context.Context, req *types.CategoryRequest) (*models.MenuCategory, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, newValidationError("label", "label is required")
	}

	slug := models.Slugify(label)
	if slug == "" {
		return nil, newValidationError("label", "label must contain letters or digits")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.MenuCategory{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check category slug: %w", err)
	}
	if count > 0 {
		return nil, newValidationError("label", fmt.Sprintf("a category with slug %q already exists", slug))
	}

	category := &models.MenuCategory{
		Slug:      slug,
		Label:     label,
		SortOrder: req.SortOrder,
		IsActive:  boolOr(req.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory changes the label, order and visibility. The slug is never rewritten.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *types.CategoryRequest) (*models.MenuCategory, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, newValidationError("label", "label is required")
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"label":      label,
		"sort_order": req.SortOrder,
		"is_active":  boolOr(req.IsActive, category.IsActive),
	}
	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.GetCategory(ctx, id)
}

// DeleteCategory removes every item filed under the category, one by one,
// and only then the category itself. It stops at the first failed item
// delete so the category is never removed while items still point at it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	var items []*models.MenuItem
	if err := s.db.WithContext(ctx).Where("category = ?", category.Slug).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load items of category %s: %w", category.Slug, err)
	}

	for _, item := range items {
		if err := s.db.WithContext(ctx).Where("id = ?", item.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete item %s of category %s: %w", item.ID, category.Slug, err)
		}
	}

	result := s.db.WithContext(ctx).Where("id = ?", category.ID).Delete(&models.MenuCategory{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category %s: %w", category.Slug, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListItems returns every item ordered by category and position.
func (s *CatalogService) ListItems(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := s.db.WithContext(ctx).
		Order("category ASC").
		Order("sort_order ASC").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, req *types.MenuItemRequest) (*models.MenuItem, error) {
	item := &models.MenuItem{IsActive: true}
	if err := s.applyItem(ctx, item, req); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *types.MenuItemRequest) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyItem(ctx, item, req); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete menu item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	return nil
}

// AttachItemImage uploads the image and then points the item at it. A
// failed upload leaves the item unchanged.
func (s *CatalogService) AttachItemImage(ctx context.Context, id uuid.UUID, upload *ImageUpload) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.storage == nil {
		return nil, fmt.Errorf("%w: storage is not configured", ErrUploadFailed)
	}
	imageURL, err := s.storage.Upload(ctx, UploadKindMenu, upload)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(item).Update("image_url", imageURL).Error; err != nil {
		return nil, fmt.Errorf("failed to save item image: %w", err)
	}
	item.ImageURL = &imageURL
	return item, nil
}

// PublicMenu returns active categories that have at least one active item,
// each with its active items in display order.
func (s *CatalogService) PublicMenu(ctx context.Context) ([]*MenuSection, error) {
	var categories []*models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("label ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var items []*models.MenuItem
	err = s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	byCategory := make(map[string][]*models.MenuItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	sections := make([]*MenuSection, 0, len(categories))
	for _, category := range categories {
		categoryItems := byCategory[category.Slug]
		if len(categoryItems) == 0 {
			continue
		}
		sections = append(sections, &MenuSection{
			Slug:  category.Slug,
			Label: category.Label,
			Items: categoryItems,
		})
	}
	return sections, nil
}

func (s *CatalogService) applyItem(ctx context.Context, item *models.MenuItem, req *types.MenuItemRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return newValidationError("name", "name is required")
	}

	slug := strings.TrimSpace(req.Category)
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.MenuCategory{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return newValidationError("category", fmt.Sprintf("unknown category %q", slug))
	}

	var price *float64
	if req.Price != nil {
		if *req.Price < 0 || math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) {
			return newValidationError("price", "price must be a non-negative amount")
		}
		rounded := math.Round(*req.Price*100) / 100
		if rounded > MaxItemPrice {
			return newValidationError("price", fmt.Sprintf("price must not exceed %.2f", MaxItemPrice))
		}
		price = &rounded
	}

	var imageURL *string
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" {
		ref := strings.TrimSpace(*req.ImageURL)
		if !ValidImageReference(ref) {
			return fmt.Errorf("%w: %q", ErrInvalidImage, ref)
		}
		imageURL = &ref
	}

	item.Category = slug
	item.Name = name
	item.Description = strings.TrimSpace(req.Description)
	item.Price = price
	item.ImageURL = imageURL
	item.SortOrder = req.SortOrder
	item.IsActive = boolOr(req.IsActive, item.IsActive)
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
