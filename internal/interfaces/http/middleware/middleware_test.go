package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/middleware"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"github.com/maboutique/maboutique-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, values := range header {
		req.Header[http.CanonicalHeaderKey(key)] = values
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func countCategories(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&catalog.Category{}).Count(&count).Error)
	return count
}

func TestUnitOfWork(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config())

	create := func(c *gin.Context, name string) {
		tx := database.FromContext(c.Request.Context(), db)
		require.NoError(t, tx.Create(&catalog.Category{Name: name, IsActive: true}).Error)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.UnitOfWork(db))
	r.POST("/ok", func(c *gin.Context) {
		create(c, "Kept")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/rejected", func(c *gin.Context) {
		create(c, "Rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "nope"})
	})
	r.POST("/failed", func(c *gin.Context) {
		create(c, "Failed")
		_ = c.Error(errors.New("boom"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/panic", func(c *gin.Context) {
		create(c, "Panicked")
		panic("boom")
	})

	w := serve(r, http.MethodPost, "/ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.EqualValues(t, 1, countCategories(t, db))

	w = serve(r, http.MethodPost, "/rejected", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"nope"}`, w.Body.String())
	assert.EqualValues(t, 1, countCategories(t, db))

	w = serve(r, http.MethodPost, "/failed", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.EqualValues(t, 1, countCategories(t, db))

	w = serve(r, http.MethodPost, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.EqualValues(t, 1, countCategories(t, db))
}

type stubAuthenticator struct {
	user *user.User
	err  error
	seen string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*user.User, error) {
	s.seen = token
	return s.user, s.err
}

func TestAuthMiddleware(t *testing.T) {
	newRouter := func(authenticator middleware.Authenticator) *gin.Engine {
		r := gin.New()
		r.Use(middleware.AuthMiddleware(authenticator))
		r.GET("/me", func(c *gin.Context) {
			current, ok := middleware.CurrentUser(c)
			require.True(t, ok)
			userID, ok := middleware.GetUserIDFromContext(c)
			require.True(t, ok)
			assert.Equal(t, current.ID, userID)
			c.String(http.StatusOK, current.Username)
		})
		return r
	}

	t.Run("missing header", func(t *testing.T) {
		w := serve(newRouter(&stubAuthenticator{}), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := serve(newRouter(&stubAuthenticator{}), http.MethodGet, "/me", http.Header{"Authorization": {"Basic abc"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		stub := &stubAuthenticator{err: apperror.NewUnauthenticated("Could not validate credentials", nil)}
		w := serve(newRouter(stub), http.MethodGet, "/me", http.Header{"Authorization": {"Bearer bad"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "bad", stub.seen)
	})

	t.Run("user gone", func(t *testing.T) {
		stub := &stubAuthenticator{err: apperror.NewNotFound("User not found")}
		w := serve(newRouter(stub), http.MethodGet, "/me", http.Header{"Authorization": {"Bearer good"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("authenticated", func(t *testing.T) {
		stub := &stubAuthenticator{user: &user.User{ID: 7, Username: "alice"}}
		w := serve(newRouter(stub), http.MethodGet, "/me", http.Header{"Authorization": {"bearer good"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDKey))
	})

	w := serve(r, http.MethodGet, "/", nil)
	generated := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = serve(r, http.MethodGet, "/", http.Header{middleware.RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"far too long"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(testutil.Config()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/", http.Header{
		"Origin":                        {"http://localhost:3000"},
		"Access-Control-Request-Method": {"GET"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/", http.Header{"Origin": {"http://evil.example"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSAnyOriginWithoutCredentials(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}} {
		cfg := testutil.Config()
		cfg.Security.CORSAllowedOrigins = origins

		r := gin.New()
		r.Use(middleware.CORS(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, http.MethodGet, "/", http.Header{"Origin": {"http://shop.example"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	}
}
