// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"io"
	"testing"
	"time"

	"github.com/maboutique/maboutique-api/internal/config"
	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database/migration"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plaintext password of every fixture user
const Password = "secret-pass"

// Config returns a configuration backed by an in-memory sqlite database
func Config() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "MaBoutique API", Version: "test", Environment: "test"},
		Server: config.ServerConfig{Port: "0", MaxRequestSize: 1 << 20},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   ":memory:",
		},
		JWT: config.JWTConfig{
			Secret:            "test-secret-0123456789abcdef0123456789",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:         4,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

// Logger returns a logger that discards output
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewConnection opens a migrated in-memory database that is closed when the test ends
func NewConnection(t testing.TB, cfg *config.Config) *database.Connection {
	t.Helper()

	conn, err := database.NewConnection(cfg, Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migration.NewMigration(conn.GetDB(), Logger()).RunAutoMigrations())
	return conn
}

// NewDB is NewConnection for callers that only need the gorm handle
func NewDB(t testing.TB, cfg *config.Config) *gorm.DB {
	t.Helper()
	return NewConnection(t, cfg).GetDB()
}

// CreateCategory inserts an active category
func CreateCategory(t testing.TB, db *gorm.DB, name string) *catalog.Category {
	t.Helper()

	category := &catalog.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

// ArticleOption customises a fixture article
type ArticleOption func(*catalog.Article)

// WithDiscount sets the discount percentage
func WithDiscount(percent int64) ArticleOption {
	return func(a *catalog.Article) { a.DiscountPercentage = decimal.NewFromInt(percent) }
}

// WithDescription sets the description
func WithDescription(description string) ArticleOption {
	return func(a *catalog.Article) { a.Description = &description }
}

// Featured marks the article as featured
func Featured() ArticleOption {
	return func(a *catalog.Article) { a.IsFeatured = true }
}

// CreateArticle inserts an active article in category
func CreateArticle(t testing.TB, db *gorm.DB, category *catalog.Category, name, price string, opts ...ArticleOption) *catalog.Article {
	t.Helper()

	article := &catalog.Article{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: category.ID,
		IsActive:   true,
	}
	for _, opt := range opts {
		opt(article)
	}
	require.NoError(t, db.Create(article).Error)
	return article
}

// Deactivate flips is_active off for a persisted row
func Deactivate(t testing.TB, db *gorm.DB, model interface{}) {
	t.Helper()
	require.NoError(t, db.Model(model).Update("is_active", false).Error)
}

// CreateUser inserts an active user whose password is Password
func CreateUser(t testing.TB, db *gorm.DB, username string) *user.User {
	t.Helper()

	u := &user.User{
		Username: username,
		Email:    username + "@example.com",
		Password: mustHash(t, Password),
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustHash(t testing.TB, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}
