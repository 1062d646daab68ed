// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default page sizes per listing
const (
	DefaultCategoryLimit = 100
	DefaultArticleLimit  = 100
	DefaultFeaturedLimit = 20
	DefaultOnSaleLimit   = 50
	DefaultSearchLimit   = 50
	MaxLimit             = 100
)

var (
	ErrNegativePrice      = errors.New("article price cannot be negative")
	ErrDiscountOutOfRange = errors.New("discount percentage must be between 0 and 100")
	ErrRatingOutOfRange   = errors.New("rating must be between 0 and 5")

	hundred   = decimal.NewFromInt(100)
	maxRating = decimal.NewFromInt(5)
)

// Page is a skip/limit window over a listing
type Page struct {
	Skip  int
	Limit int
}

// NewPage validates a window. A nil limit takes defaultLimit; limits above MaxLimit are capped.
func NewPage(skip int, limit *int, defaultLimit int) (Page, error) {
	page := Page{Skip: skip, Limit: defaultLimit}
	if limit != nil {
		page.Limit = *limit
	}

	fields := map[string]string{}
	if page.Skip < 0 {
		fields["skip"] = "skip must be greater than or equal to 0"
	}
	if page.Limit < 1 {
		fields["limit"] = "limit must be greater than or equal to 1"
	}
	if len(fields) > 0 {
		return Page{}, apperror.NewValidation("Invalid pagination", fields)
	}

	if page.Limit > MaxLimit {
		page.Limit = MaxLimit
	}
	return page, nil
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	CategoryID *uint
	Featured   bool
	OnSale     bool
	Query      string
}

// Service handles article queries
type Service struct {
	db *gorm.DB
}

// NewService creates a new article service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// ListArticles returns active articles, optionally within one category
func (s *Service) ListArticles(ctx context.Context, categoryID *uint, page Page) ([]Article, error) {
	return s.findArticles(ctx, ArticleFilter{CategoryID: categoryID}, page)
}

// ListFeatured returns active featured articles
func (s *Service) ListFeatured(ctx context.Context, page Page) ([]Article, error) {
	return s.findArticles(ctx, ArticleFilter{Featured: true}, page)
}

// ListOnSale returns active articles carrying a discount
func (s *Service) ListOnSale(ctx context.Context, page Page) ([]Article, error) {
	return s.findArticles(ctx, ArticleFilter{OnSale: true}, page)
}

// Search matches query against article names and descriptions, ignoring case
func (s *Service) Search(ctx context.Context, query string, categoryID *uint, page Page) ([]Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.NewValidation("Invalid search query", map[string]string{"q": "search query must not be empty"})
	}
	return s.findArticles(ctx, ArticleFilter{CategoryID: categoryID, Query: query}, page)
}

// GetArticle retrieves an article by id
func (s *Service) GetArticle(ctx context.Context, id uint) (*Article, error) {
	var article Article
	if err := database.FromContext(ctx, s.db).First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Article not found")
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

func (s *Service) findArticles(ctx context.Context, filter ArticleFilter, page Page) ([]Article, error) {
	query := database.FromContext(ctx, s.db).Model(&Article{}).Where("is_active = ?", true)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.OnSale {
		query = query.Where("discount_percentage > ?", 0)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Query)) + "%"
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	articles := []Article{}
	if err := query.Order("id ASC").Offset(page.Skip).Limit(page.Limit).Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(value string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(value)
}
