// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/wishlist"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/response"
	"gorm.io/gorm"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(db *gorm.DB) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlist.NewService(db),
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.wishlistService.List(c.Request.Context(), u.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddToWishlist handles POST /wishlist
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req wishlist.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	item, err := h.wishlistService.AddItem(c.Request.Context(), u.ID, req.ArticleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// RemoveFromWishlist handles DELETE /wishlist/:articleId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	articleID, err := parseID(c, "articleId")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.wishlistService.RemoveItem(c.Request.Context(), u.ID, articleID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from wishlist"})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if _, err := h.wishlistService.Clear(c.Request.Context(), u.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Wishlist cleared"})
}
