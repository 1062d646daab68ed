package wishlist

import (
	"time"

	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
)

// WishlistItem represents a saved article. A user lists an article at most once.
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_article,priority:1" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_article,priority:2;index" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User    *user.User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Article *catalog.Article `gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article,omitempty"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
