// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/response"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"github.com/maboutique/maboutique-api/internal/pkg/auth"
)

const currentUserKey = "current_user"

// Authenticator resolves a bearer token to the account it names
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// AuthMiddleware requires a valid bearer token naming an existing user
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperror.NewUnauthenticated("Not authenticated", nil))
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			response.Error(c, apperror.NewUnauthenticated("Not authenticated", nil))
			return
		}

		// A token for a deleted account resolves to NotFound, not Unauthenticated.
		currentUser, err := authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(currentUserKey, currentUser)
		c.Set("user_id", currentUser.ID)

		c.Next()
	}
}

// CurrentUser returns the user AuthMiddleware stored on the context
func CurrentUser(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	currentUser, ok := value.(*user.User)
	return currentUser, ok
}

// GetUserIDFromContext extracts the authenticated user's id
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}
