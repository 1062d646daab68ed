// internal/domain/catalog/entity.go
package catalog

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices and percentages are served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups articles in the storefront
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:120" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:500" json:"image_url"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Article is a sellable catalog entry
type Article struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"not null;size:200;index" json:"name"`
	Description        *string         `gorm:"type:text" json:"description"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Brand              *string         `gorm:"size:100" json:"brand"`
	CategoryID         uint            `gorm:"not null;index" json:"category_id"`
	ImageURL           *string         `gorm:"size:500" json:"image_url"`
	StockQuantity      int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsFeatured         bool            `gorm:"not null;default:false" json:"is_featured"`
	IsActive           bool            `gorm:"not null;default:true" json:"is_active"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	Rating             decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	ReviewCount        int             `gorm:"not null;default:0" json:"review_count"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName overrides the table name for Article
func (Article) TableName() string {
	return "articles"
}

// BeforeSave derives the slug from the name when none is given
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

// BeforeSave enforces the catalog ranges
func (a *Article) BeforeSave(tx *gorm.DB) error {
	if a.Price.IsNegative() {
		return ErrNegativePrice
	}
	if a.DiscountPercentage.IsNegative() || a.DiscountPercentage.GreaterThan(hundred) {
		return ErrDiscountOutOfRange
	}
	if a.Rating.IsNegative() || a.Rating.GreaterThan(maxRating) {
		return ErrRatingOutOfRange
	}
	return nil
}

// OnSale reports whether the article carries a discount
func (a *Article) OnSale() bool {
	return a.DiscountPercentage.IsPositive()
}

// DiscountedPrice returns the unit price after the percentage discount
func (a *Article) DiscountedPrice() decimal.Decimal {
	if !a.OnSale() {
		return a.Price
	}
	return a.Price.Sub(a.Price.Mul(a.DiscountPercentage).Div(hundred))
}
