// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. A (user, article, size, color) tuple appears at most once.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_cart_items_variant,priority:1" json:"user_id"`
	ArticleID uint      `gorm:"not null;index:idx_cart_items_variant,priority:2" json:"article_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Size      *string   `gorm:"size:20" json:"size"`
	Color     *string   `gorm:"size:50" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User    *user.User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Article *catalog.Article `gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article,omitempty"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// CartSummary is the priced view of a user's cart
type CartSummary struct {
	TotalItems    int             `json:"total_items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	Total         decimal.Decimal `json:"total"`
	Items         []CartItem      `json:"items"`
}

// Line amounts are exact; aggregates are rounded half away from zero to cents.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// LineTotal returns price × quantity for an item whose article is loaded
func (ci *CartItem) LineTotal() decimal.Decimal {
	if ci.Article == nil {
		return decimal.Zero
	}
	return ci.Article.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// LineDiscount returns the discount applied to the line
func (ci *CartItem) LineDiscount() decimal.Decimal {
	if ci.Article == nil || !ci.Article.OnSale() {
		return decimal.Zero
	}
	return ci.LineTotal().Mul(ci.Article.DiscountPercentage).Div(hundred)
}

// Summarize prices items. Articles must be preloaded.
func Summarize(items []CartItem) CartSummary {
	subtotal := decimal.Zero
	discount := decimal.Zero
	totalItems := 0

	for i := range items {
		totalItems += items[i].Quantity
		subtotal = subtotal.Add(items[i].LineTotal())
		discount = discount.Add(items[i].LineDiscount())
	}

	subtotal = subtotal.Round(moneyPlaces)
	discount = discount.Round(moneyPlaces)

	if items == nil {
		items = []CartItem{}
	}

	return CartSummary{
		TotalItems:    totalItems,
		Subtotal:      subtotal,
		TotalDiscount: discount,
		Total:         subtotal.Sub(discount),
		Items:         items,
	}
}
