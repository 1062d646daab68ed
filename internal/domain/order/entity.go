// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is a placed purchase. No endpoint drives it yet; the table is part of the schema.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        OrderStatus     `gorm:"not null;size:20;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"not null;size:20;default:'unpaid'" json:"payment_status"`

	// Shipping
	ShippingAddress    *string `gorm:"type:text" json:"shipping_address"`
	ShippingCity       *string `gorm:"size:100" json:"shipping_city"`
	ShippingPostalCode *string `gorm:"size:20" json:"shipping_postal_code"`
	ShippingCountry    *string `gorm:"size:100" json:"shipping_country"`
	PaymentMethod      *string `gorm:"size:50" json:"payment_method"`

	// Timestamps
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	// Relationships
	User  *user.User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem snapshots an article at purchase time
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ArticleID       uint            `gorm:"not null;index" json:"article_id"`
	Quantity        int             `gorm:"not null;default:1" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
	Size            *string         `gorm:"size:20" json:"size"`
	Color           *string         `gorm:"size:50" json:"color"`

	Article *catalog.Article `gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"article,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// Business methods for Order

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// IsFinal reports whether no further status change is expected
func (o *Order) IsFinal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// ItemsTotal sums price at purchase × quantity over the order lines
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}
