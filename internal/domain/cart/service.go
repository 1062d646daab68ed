// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new cart service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ArticleID uint    `json:"article_id" binding:"required"`
	Quantity  *int    `json:"quantity"`
	Size      *string `json:"size" binding:"omitempty,max=20"`
	Color     *string `json:"color" binding:"omitempty,max=50"`
}

// UpdateItemRequest represents a partial cart item update. Absent fields are left unchanged.
type UpdateItemRequest struct {
	Quantity *int    `json:"quantity"`
	Size     *string `json:"size" binding:"omitempty,max=20"`
	Color    *string `json:"color" binding:"omitempty,max=50"`
}

// UpdateResult is either the updated item or a removal notice
type UpdateResult struct {
	Item    *CartItem
	Removed bool
}

// GetCart loads the user's items with their articles and prices them
func (s *Service) GetCart(ctx context.Context, userID uint) (*CartSummary, error) {
	var items []CartItem
	err := database.FromContext(ctx, s.db).
		Preload("Article").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	summary := Summarize(items)
	return &summary, nil
}

// AddItem adds an article to the cart, merging with an existing line for the same variant
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*CartItem, error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, apperror.NewValidation("Invalid cart item", map[string]string{"quantity": "quantity must be at least 1"})
	}

	size := normalizeVariant(req.Size)
	color := normalizeVariant(req.Color)

	var itemID uint
	err := database.FromContext(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := ensureArticle(tx, req.ArticleID); err != nil {
			return err
		}

		var existing CartItem
		err := variantScope(tx.Where("user_id = ? AND article_id = ?", userID, req.ArticleID), size, color).
			First(&existing).Error
		switch {
		case err == nil:
			itemID = existing.ID
			return tx.Model(&existing).
				Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := CartItem{
				UserID:    userID,
				ArticleID: req.ArticleID,
				Quantity:  quantity,
				Size:      size,
				Color:     color,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			itemID = item.ID
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, wrap("failed to add item to cart", err)
	}

	return s.getItem(ctx, userID, itemID)
}

// UpdateItem applies a partial update. A quantity of zero or less removes the line.
// Moving a line onto a variant the cart already holds merges the two lines.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uint, req *UpdateItemRequest) (*UpdateResult, error) {
	result := &UpdateResult{}
	resultID := itemID

	err := database.FromContext(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		item, err := s.findOwned(tx, userID, itemID)
		if err != nil {
			return err
		}

		if req.Quantity != nil && *req.Quantity <= 0 {
			result.Removed = true
			return tx.Delete(item).Error
		}

		quantity := item.Quantity
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		size, color := item.Size, item.Color
		if req.Size != nil {
			size = normalizeVariant(req.Size)
		}
		if req.Color != nil {
			color = normalizeVariant(req.Color)
		}

		var twin CartItem
		err = variantScope(tx.Where("user_id = ? AND article_id = ? AND id <> ?", userID, item.ArticleID, item.ID), size, color).
			First(&twin).Error
		switch {
		case err == nil:
			resultID = twin.ID
			if err := tx.Model(&twin).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return err
			}
			return tx.Delete(item).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Model(item).Updates(map[string]interface{}{
			"quantity": quantity,
			"size":     size,
			"color":    color,
		}).Error
	})
	if err != nil {
		return nil, wrap("failed to update cart item", err)
	}
	if result.Removed {
		return result, nil
	}

	result.Item, err = s.getItem(ctx, userID, resultID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes one line from the user's cart
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint) error {
	result := database.FromContext(ctx, s.db).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("Cart item not found")
	}
	return nil
}

// Clear removes every line of the user's cart and returns how many were removed
func (s *Service) Clear(ctx context.Context, userID uint) (int64, error) {
	result := database.FromContext(ctx, s.db).Where("user_id = ?", userID).Delete(&CartItem{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Private helper methods

func (s *Service) getItem(ctx context.Context, userID, itemID uint) (*CartItem, error) {
	var item CartItem
	err := database.FromContext(ctx, s.db).
		Preload("Article").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Cart item not found")
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}

func (s *Service) findOwned(db *gorm.DB, userID, itemID uint) (*CartItem, error) {
	var item CartItem
	err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Cart item not found")
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}

func ensureArticle(db *gorm.DB, articleID uint) error {
	var count int64
	if err := db.Model(&catalog.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NewNotFound("Article not found")
	}
	return nil
}

// variantScope matches size and color, treating NULL as its own value
func variantScope(db *gorm.DB, size, color *string) *gorm.DB {
	if size == nil {
		db = db.Where("size IS NULL")
	} else {
		db = db.Where("size = ?", *size)
	}
	if color == nil {
		db = db.Where("color IS NULL")
	} else {
		db = db.Where("color = ?", *color)
	}
	return db
}

// normalizeVariant trims a variant attribute; blank means no variant
func normalizeVariant(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func wrap(message string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}
