// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/cart"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/response"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db),
	}
}

// ClearCartResponse reports how many lines a clear removed
type ClearCartResponse struct {
	Message string `json:"message"`
	Removed int64  `json:"removed"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.cartService.GetCart(c.Request.Context(), u.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), u.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateCartItem handles PUT /cart/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	itemID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), u.ID, itemID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Removed {
		c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, result.Item)
}

// RemoveFromCart handles DELETE /cart/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	itemID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), u.ID, itemID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from cart"})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	removed, err := h.cartService.Clear(c.Request.Context(), u.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ClearCartResponse{Message: "Cart cleared", Removed: removed})
}
