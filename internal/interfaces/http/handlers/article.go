// internal/interfaces/http/handlers/article.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/response"
	"gorm.io/gorm"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	articleService *catalog.Service
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(db *gorm.DB) *ArticleHandler {
	return &ArticleHandler{
		articleService: catalog.NewService(db),
	}
}

// ListArticles handles GET /articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	categoryID, err := queryCategoryID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := queryPage(c, catalog.DefaultArticleLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	articles, err := h.articleService.ListArticles(c.Request.Context(), categoryID, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// ListFeatured handles GET /articles/featured
func (h *ArticleHandler) ListFeatured(c *gin.Context) {
	page, err := queryPage(c, catalog.DefaultFeaturedLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	articles, err := h.articleService.ListFeatured(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// ListOnSale handles GET /articles/on-sale
func (h *ArticleHandler) ListOnSale(c *gin.Context) {
	page, err := queryPage(c, catalog.DefaultOnSaleLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	articles, err := h.articleService.ListOnSale(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// Search handles GET /articles/search?q=
func (h *ArticleHandler) Search(c *gin.Context) {
	categoryID, err := queryCategoryID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := queryPage(c, catalog.DefaultSearchLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	articles, err := h.articleService.Search(c.Request.Context(), c.Query("q"), categoryID, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// GetArticle handles GET /articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}
