// internal/domain/catalog/category_service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"gorm.io/gorm"
)

// CategoryService handles category queries
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		db: db,
	}
}

// ListCategories returns active categories in id order
func (s *CategoryService) ListCategories(ctx context.Context, page Page) ([]Category, error) {
	categories := []Category{}
	err := database.FromContext(ctx, s.db).
		Where("is_active = ?", true).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by id
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := database.FromContext(ctx, s.db).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// GetCategoryBySlug retrieves an active category by slug
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apperror.NewValidation("Invalid category slug", map[string]string{"slug": "slug is required"})
	}

	var category Category
	err := database.FromContext(ctx, s.db).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}
