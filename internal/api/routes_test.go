package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/crypto"
	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/pkg/cache"
	"github.com/example/storefront/pkg/messagequeue"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	restore := crypto.SetPasswordCostForTesting(bcrypt.MinCost)
	code := m.Run()
	restore()
	os.Exit(code)
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

type testServer struct {
	router *gin.Engine
	repos  *db.Repositories
	tokens *crypto.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	repos := db.NewMemoryRepositories()
	c := cache.NopCache{}
	queue := messagequeue.NewMemoryQueue()
	t.Cleanup(func() { queue.Close() })
	notifier := notify.NewPublisher(queue)
	tokens := crypto.NewTokenManager("test-secret", time.Hour)
	reads := core.NewReadThrough(c, time.Minute, logger)
	products := core.NewProductService(repos, reads, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), middleware.RecoveryMiddleware(logger))
	SetupRoutes(router, Services{
		Users: core.NewUserService(repos.Users, tokens, c, notifier, core.UserServiceConfig{
			ClientURL: "http://localhost:3000",
			ResetTTL:  10 * time.Minute,
		}, logger),
		Carts:      core.NewCartService(repos.Users, products, notifier, logger),
		Categories: core.NewCategoryService(repos.Categories, reads),
		Variants:   core.NewVariantService(repos.Variants, reads),
		Sizes:      core.NewSizeService(repos.Sizes, reads),
		Products:   products,
	}, CookieConfig{MaxAgeSeconds: 3600}, logger)

	return &testServer{router: router, repos: repos, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// userToken stores a user with role and returns a token for it.
func (s *testServer) userToken(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)
	now := time.Now().UTC()
	user := &models.User{
		ID: core.NewID(), Name: "Test User", Email: email, PasswordHash: hash,
		Role: role, CartHistory: []models.Cart{}, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.repos.Users.Create(context.Background(), user))
	token, _, err := s.tokens.Issue(user)
	require.NoError(t, err)
	return user, token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)
	signup := gin.H{"name": "Jane Doe", "email": "jane@example.com", "password": "secret123", "confirmPassword": "secret123"}

	w, env := s.do(t, http.MethodPost, "/api/v1/users/signup", "", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth models.AuthUser
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	assert.NotEmpty(t, auth.Token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.AuthCookieName+"=")

	w, env = s.do(t, http.MethodPost, "/api/v1/users/signup", "", signup)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "This email is already taken", env.Errors["email"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/users/login", "", gin.H{"email": "jane@example.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/users/me", auth.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignup_ValidationReportsAllFields(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodPost, "/api/v1/users/signup", "", gin.H{
		"name": "Jo", "email": "not-an-email", "password": "secret123", "confirmPassword": "other123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "confirmPassword")
}

func TestStrictDecoding(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodPost, "/api/v1/users/login", "", `{"email":"jane@example.com","password":"secret123","admin":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "unknown field")
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.userToken(t, "jane@example.com", models.RoleUser)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)

	w, _ := s.do(t, http.MethodPost, "/api/v1/categories", "", gin.H{"name": "Shoes"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/categories", userToken, gin.H{"name": "Shoes"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "Shoes"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/carts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCookie(t *testing.T) {
	s := newTestServer(t)
	_, token := s.userToken(t, "jane@example.com", models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBannedUserIsForbidden(t *testing.T) {
	s := newTestServer(t)
	user, token := s.userToken(t, "jane@example.com", models.RoleUser)
	user.Banned = true
	require.NoError(t, s.repos.Users.Update(context.Background(), user))

	w, _ := s.do(t, http.MethodGet, "/api/v1/carts", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCategoryNameIsMeasuredAfterTrimming(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)

	w, env := s.do(t, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "  ab  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Must be at least 3 characters", env.Errors["name"])

	w, env = s.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))
}

// seedCatalog creates one product through the API and returns its id.
func (s *testServer) seedCatalog(t *testing.T, adminToken string) string {
	t.Helper()
	idOf := func(env envelope) string {
		var v struct {
			ID string `json:"_id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &v))
		return v.ID
	}
	_, category := s.do(t, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "Shoes"})
	_, variant := s.do(t, http.MethodPost, "/api/v1/variants", adminToken, gin.H{"name": "Red", "colorHex": "#ff0000"})
	_, size := s.do(t, http.MethodPost, "/api/v1/sizes", adminToken, gin.H{"name": "M"})

	w, product := s.do(t, http.MethodPost, "/api/v1/products", adminToken, gin.H{
		"name": "Sneaker", "description": "Comfortable", "price": 19.99, "discount": 10,
		"category": idOf(category), "variants": []string{idOf(variant)}, "sizes": []string{idOf(size)},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return idOf(product)
}

func TestCartLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)
	_, token := s.userToken(t, "jane@example.com", models.RoleUser)
	productID := s.seedCatalog(t, adminToken)

	w, env := s.do(t, http.MethodPost, "/api/v1/carts", token, gin.H{
		"items": []gin.H{{"product": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cart models.CartView
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "53.97", cart.Total)
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Sneaker", cart.Items[0].Product.Name)

	w, env = s.do(t, http.MethodGet, "/api/v1/carts/payment/"+cart.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var carts []models.Cart
	require.NoError(t, json.Unmarshal(env.Data, &carts))
	require.Len(t, carts, 1)
	assert.True(t, carts[0].Paid)

	w, env = s.do(t, http.MethodGet, "/api/v1/carts/active", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(env.Data))

	w, _ = s.do(t, http.MethodGet, "/api/v1/carts/payment/not-an-id", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/carts/payment/"+core.NewID(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/carts/clear", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(env.Data))
}

func TestAddToCart_ReportsEveryItem(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)
	_, token := s.userToken(t, "jane@example.com", models.RoleUser)
	productID := s.seedCatalog(t, adminToken)

	w, env := s.do(t, http.MethodPost, "/api/v1/carts", token, gin.H{
		"items": []gin.H{
			{"product": productID, "quantity": 1},
			{"product": "bad", "quantity": 2},
			{"product": core.NewID(), "quantity": 1.5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{
		"items[1].product":  "Invalid product id",
		"items[2].product":  "Not found the product with the ID",
		"items[2].quantity": "Quantity must be an integer greater than 0",
	}, env.Errors)
}

func TestAddToCart_MissingFieldsDoNotHideOtherItems(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)
	_, token := s.userToken(t, "jane@example.com", models.RoleUser)
	productID := s.seedCatalog(t, adminToken)

	w, env := s.do(t, http.MethodPost, "/api/v1/carts", token, gin.H{
		"items": []gin.H{
			{"product": "bad", "quantity": 2},
			{"product": productID},
			{"quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{
		"items[0].product":  "Invalid product id",
		"items[1].quantity": "Quantity must be an integer greater than 0",
		"items[2].product":  "Invalid product id",
	}, env.Errors)
}

func TestAddToCart_RejectsNonNumericQuantity(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)
	_, token := s.userToken(t, "jane@example.com", models.RoleUser)
	productID := s.seedCatalog(t, adminToken)

	for _, quantity := range []interface{}{"3", "abc", nil, true} {
		w, env := s.do(t, http.MethodPost, "/api/v1/carts", token, gin.H{
			"items": []gin.H{{"product": productID, "quantity": quantity}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %v", quantity)
		assert.Equal(t, map[string]string{
			"items[0].quantity": "Quantity must be an integer greater than 0",
		}, env.Errors, "quantity %v", quantity)
	}

	w, env := s.do(t, http.MethodGet, "/api/v1/carts/active", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(env.Data))
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.userToken(t, "admin@example.com", models.RoleAdmin)
	productID := s.seedCatalog(t, adminToken)

	w, env := s.do(t, http.MethodGet, "/api/v1/products?page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.ProductPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 5, page.Limit)

	w, env = s.do(t, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view models.ProductView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.NotNil(t, view.Category)
	assert.Equal(t, "Shoes", view.Category.Name)

	w, env = s.do(t, http.MethodPatch, "/api/v1/products/"+productID, adminToken, gin.H{"name": "Runner"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodDelete, "/api/v1/products/"+productID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodGet, "/api/v1/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
}
