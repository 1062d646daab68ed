package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// AddItemRequest represents add to wishlist request
type AddItemRequest struct {
	ArticleID uint `json:"article_id" binding:"required"`
}

// List returns the user's wishlist with articles, newest first
func (s *Service) List(ctx context.Context, userID uint) ([]WishlistItem, error) {
	items := []WishlistItem{}
	err := database.FromContext(ctx, s.db).
		Preload("Article").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist items: %w", err)
	}
	return items, nil
}

// AddItem saves an article to the wishlist
func (s *Service) AddItem(ctx context.Context, userID, articleID uint) (*WishlistItem, error) {
	db := database.FromContext(ctx, s.db)

	var article catalog.Article
	if err := db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Article not found")
		}
		return nil, fmt.Errorf("failed to load article: %w", err)
	}

	var count int64
	if err := db.Model(&WishlistItem{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if count > 0 {
		return nil, apperror.NewConflict("Item already in wishlist")
	}

	item := WishlistItem{
		UserID:    userID,
		ArticleID: articleID,
	}
	if err := db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflict("Item already in wishlist")
		}
		return nil, fmt.Errorf("failed to add item to wishlist: %w", err)
	}

	item.Article = &article
	return &item, nil
}

// RemoveItem removes an article from the wishlist
func (s *Service) RemoveItem(ctx context.Context, userID, articleID uint) error {
	result := database.FromContext(ctx, s.db).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove item from wishlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("Item not in wishlist")
	}
	return nil
}

// Clear removes all items from the wishlist
func (s *Service) Clear(ctx context.Context, userID uint) (int64, error) {
	result := database.FromContext(ctx, s.db).Where("user_id = ?", userID).Delete(&WishlistItem{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear wishlist: %w", result.Error)
	}
	return result.RowsAffected, nil
}
