package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/middleware"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
)

// MessageResponse is the body of endpoints that only confirm an action
type MessageResponse struct {
	Message string `json:"message"`
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.NewValidation("Invalid path parameter", map[string]string{
			name: "must be a positive integer",
		})
	}
	return uint(id), nil
}

// queryInt reads an optional integer query parameter
func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.NewValidation("Invalid query parameter", map[string]string{
			name: "must be an integer",
		})
	}
	return &value, nil
}

// queryPage reads skip and limit
func queryPage(c *gin.Context, defaultLimit int) (catalog.Page, error) {
	skip, err := queryInt(c, "skip")
	if err != nil {
		return catalog.Page{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return catalog.Page{}, err
	}

	offset := 0
	if skip != nil {
		offset = *skip
	}
	return catalog.NewPage(offset, limit, defaultLimit)
}

// queryCategoryID reads the optional category_id filter
func queryCategoryID(c *gin.Context) (*uint, error) {
	raw, ok := c.GetQuery("category_id")
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperror.NewValidation("Invalid query parameter", map[string]string{
			"category_id": "must be a non-negative integer",
		})
	}
	categoryID := uint(id)
	return &categoryID, nil
}

// currentUser returns the authenticated user; routes behind AuthMiddleware always have one
func currentUser(c *gin.Context) (*user.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperror.NewUnauthenticated("Not authenticated", nil)
	}
	return u, nil
}
