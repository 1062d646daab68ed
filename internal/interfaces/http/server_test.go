package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/domain/catalog"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	httpapi "github.com/maboutique/maboutique-api/internal/interfaces/http"
	"github.com/maboutique/maboutique-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type APITestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler http.Handler

	dresses *catalog.Category
	coat    *catalog.Article
	scarf   *catalog.Article
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *APITestSuite) SetupTest() {
	cfg := testutil.Config()
	conn := testutil.NewConnection(suite.T(), cfg)
	suite.db = conn.GetDB()
	suite.handler = httpapi.NewServer(cfg, conn, testutil.Logger()).Handler()

	suite.dresses = testutil.CreateCategory(suite.T(), suite.db, "Dresses")
	suite.coat = testutil.CreateArticle(suite.T(), suite.db, suite.dresses, "Wool Coat", "100.00",
		testutil.WithDiscount(20), testutil.Featured())
	suite.scarf = testutil.CreateArticle(suite.T(), suite.db, suite.dresses, "Silk Scarf", "25.00",
		testutil.WithDescription("A light summer scarf"))
}

func (suite *APITestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](suite *APITestSuite, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (suite *APITestSuite) signup(username string) string {
	w := suite.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	}, "")
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	body := decode[map[string]interface{}](suite, w)
	return body["access_token"].(string)
}

func (suite *APITestSuite) TestRoot() {
	w := suite.request(http.MethodGet, "/", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	body := decode[map[string]string](suite, w)
	suite.Equal("Welcome to MaBoutique API!", body["message"])
	suite.Equal("running", body["status"])
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
	suite.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (suite *APITestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("healthy", decode[map[string]interface{}](suite, w)["status"])
}

func (suite *APITestSuite) TestSignupAndLogin() {
	token := suite.signup("alice")
	suite.NotEmpty(token)

	w := suite.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "s3cret-pass",
	}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Email or username already registered", decode[map[string]interface{}](suite, w)["error"])

	w = suite.request(http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "s3cret-pass",
	}, "")
	suite.Equal(http.StatusOK, w.Code)
	login := decode[map[string]interface{}](suite, w)
	suite.Equal("bearer", login["token_type"])
	suite.NotEmpty(login["access_token"])

	w = suite.request(http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Bearer", w.Header().Get("WWW-Authenticate"))
}

func (suite *APITestSuite) TestLoginAcceptsPasswordForm() {
	suite.signup("alice")

	form := url.Values{"username": {"alice"}, "password": {"s3cret-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	suite.handler.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *APITestSuite) TestSignupValidation() {
	w := suite.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "al",
		"email":    "not-an-email",
	}, "")
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	body := decode[map[string]interface{}](suite, w)
	details := body["details"].(map[string]interface{})
	suite.Contains(details, "username")
	suite.Contains(details, "email")
	suite.Contains(details, "password")
}

func (suite *APITestSuite) TestMe() {
	w := suite.request(http.MethodGet, "/auth/me", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Bearer", w.Header().Get("WWW-Authenticate"))

	w = suite.request(http.MethodGet, "/auth/me", nil, "not-a-token")
	suite.Equal(http.StatusUnauthorized, w.Code)

	token := suite.signup("alice")
	w = suite.request(http.MethodGet, "/auth/me", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	me := decode[map[string]interface{}](suite, w)
	suite.Equal("alice", me["username"])
	suite.NotContains(me, "password")
	suite.NotContains(me, "is_admin")

	w = suite.request(http.MethodGet, "/auth/test", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Hello alice! You are authenticated.", decode[map[string]string](suite, w)["message"])

	require.NoError(suite.T(), suite.db.Where("username = ?", "alice").Delete(&user.User{}).Error)
	w = suite.request(http.MethodGet, "/auth/me", nil, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestCatalogRoutes() {
	w := suite.request(http.MethodGet, "/categories", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]map[string]interface{}](suite, w), 1)

	w = suite.request(http.MethodGet, fmt.Sprintf("/categories/%d", suite.dresses.ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/categories/slug/dresses", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Dresses", decode[map[string]interface{}](suite, w)["name"])

	w = suite.request(http.MethodGet, "/categories/9999", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Category not found", decode[map[string]interface{}](suite, w)["error"])

	w = suite.request(http.MethodGet, "/articles/featured", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	featured := decode[[]map[string]interface{}](suite, w)
	require.Len(suite.T(), featured, 1)
	suite.Equal("Wool Coat", featured[0]["name"])
	suite.EqualValues(100, featured[0]["price"])

	w = suite.request(http.MethodGet, "/articles/on-sale", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]map[string]interface{}](suite, w), 1)

	w = suite.request(http.MethodGet, "/articles/search?q=SUMMER", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	found := decode[[]map[string]interface{}](suite, w)
	require.Len(suite.T(), found, 1)
	suite.Equal("Silk Scarf", found[0]["name"])

	w = suite.request(http.MethodGet, "/articles/search?q=", nil, "")
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/articles?category_id=%d&limit=1", suite.dresses.ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]map[string]interface{}](suite, w), 1)

	w = suite.request(http.MethodGet, "/articles?skip=-1", nil, "")
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.request(http.MethodGet, "/articles/abc", nil, "")
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/articles/%d", suite.scarf.ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Silk Scarf", decode[map[string]interface{}](suite, w)["name"])
}

func (suite *APITestSuite) TestCartFlow() {
	token := suite.signup("alice")

	w := suite.request(http.MethodGet, "/cart", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/cart", map[string]interface{}{"article_id": suite.coat.ID, "quantity": 2, "size": "M"}, token)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	w = suite.request(http.MethodPost, "/cart", map[string]interface{}{"article_id": suite.coat.ID, "quantity": 3, "size": "M"}, token)
	suite.Equal(http.StatusOK, w.Code)
	item := decode[map[string]interface{}](suite, w)
	suite.EqualValues(5, item["quantity"])
	itemID := uint(item["id"].(float64))

	w = suite.request(http.MethodPut, fmt.Sprintf("/cart/%d", itemID), map[string]interface{}{"quantity": 3}, token)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/cart", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	summary := decode[map[string]interface{}](suite, w)
	suite.EqualValues(3, summary["total_items"])
	suite.EqualValues(300, summary["subtotal"])
	suite.EqualValues(60, summary["total_discount"])
	suite.EqualValues(240, summary["total"])

	w = suite.request(http.MethodPost, "/cart", map[string]interface{}{"article_id": 9999}, token)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPost, "/cart", map[string]interface{}{"quantity": 1}, token)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(decode[map[string]interface{}](suite, w)["details"], "article_id")

	w = suite.request(http.MethodPut, fmt.Sprintf("/cart/%d", itemID), map[string]interface{}{"quantity": 0}, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Item removed from cart", decode[map[string]string](suite, w)["message"])

	w = suite.request(http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, token)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.request(http.MethodPost, "/cart", map[string]interface{}{"article_id": suite.scarf.ID}, token)
	w = suite.request(http.MethodDelete, "/cart", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	cleared := decode[map[string]interface{}](suite, w)
	suite.Equal("Cart cleared", cleared["message"])
	suite.EqualValues(1, cleared["removed"])
}

func (suite *APITestSuite) TestCartIsPrivate() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")

	w := suite.request(http.MethodPost, "/cart", map[string]interface{}{"article_id": suite.scarf.ID}, alice)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	itemID := uint(decode[map[string]interface{}](suite, w)["id"].(float64))

	w = suite.request(http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, bob)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/cart", nil, bob)
	suite.Equal(http.StatusOK, w.Code)
	suite.Empty(decode[map[string]interface{}](suite, w)["items"])
}

func (suite *APITestSuite) TestWishlistFlow() {
	token := suite.signup("alice")

	w := suite.request(http.MethodPost, "/wishlist", map[string]interface{}{"article_id": suite.scarf.ID}, token)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodPost, "/wishlist", map[string]interface{}{"article_id": suite.scarf.ID}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Item already in wishlist", decode[map[string]interface{}](suite, w)["error"])

	w = suite.request(http.MethodGet, "/wishlist", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]map[string]interface{}](suite, w), 1)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/wishlist/%d", suite.scarf.ID), nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Item removed from wishlist", decode[map[string]string](suite, w)["message"])

	w = suite.request(http.MethodDelete, fmt.Sprintf("/wishlist/%d", suite.scarf.ID), nil, token)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, "/wishlist", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Wishlist cleared", decode[map[string]string](suite, w)["message"])
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestStopBeforeStart(t *testing.T) {
	cfg := testutil.Config()
	srv := httpapi.NewServer(cfg, testutil.NewConnection(t, cfg), testutil.Logger())

	require.NoError(t, srv.Stop(context.Background()))

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server kept serving after Stop")
	}
}
