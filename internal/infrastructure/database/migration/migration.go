// internal/infrastructure/database/migration/migration.go
package migration

import (
	"fmt"

	"github.com/maboutique/maboutique-api/internal/domain/cart"
	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/order"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/domain/wishlist"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration creates and maintains the schema
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&catalog.Category{},
		&catalog.Article{},
		&cart.CartItem{},
		&wishlist.WishlistItem{},
		&order.Order{},
		&order.OrderItem{},
	}
}

// RunAutoMigrations creates missing tables, columns and constraints
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the composite indexes listings filter on
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_categories_active ON categories(is_active, id)",
		"CREATE INDEX IF NOT EXISTS idx_articles_category_active ON articles(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_articles_featured_active ON articles(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_articles_discount_active ON articles(discount_percentage, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
	}

	failed := 0
	for _, statement := range indexes {
		if err := m.db.Exec(statement).Error; err != nil {
			failed++
			m.log.WithError(err).Warnf("Failed to create index: %s", statement)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d indexes could not be created", failed, len(indexes))
	}

	m.log.Infof("Created %d indexes", len(indexes))
	return nil
}

// DropAllTables drops every table in reverse dependency order
func (m *Migration) DropAllTables() error {
	m.log.Warn("Dropping all database tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	return nil
}
