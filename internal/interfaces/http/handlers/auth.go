// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/response"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *user.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	token, err := h.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Login handles POST /auth/login. Accepts JSON or an OAuth2 password form.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	token, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// Test handles GET /auth/test
func (h *AuthHandler) Test(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Hello %s! You are authenticated.", u.Username),
	})
}
