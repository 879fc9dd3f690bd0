package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asso-cms/config"
	"asso-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	old := config.JWTSecret
	config.JWTSecret = testSecret
	t.Cleanup(func() { config.JWTSecret = old })

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}

	router := gin.New()
	api := router.Group("/api")

	actualites := api.Group("/actualites", RequireAuth(), RequireRole(models.RoleAdmin, models.RoleEditor))
	actualites.PUT("/:id", ok)
	actualites.DELETE("/:id", ok)

	users := api.Group("/users", RequireAuth(), RequireRole(models.RoleAdmin))
	users.DELETE("/:id", ok)
	users.GET("", ok)

	return router
}

func signToken(t *testing.T, secret []byte, role models.UserRole, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": uint(42),
		"email":   "someone@example.org",
		"role":    role,
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(expiresIn).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func do(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPut, "/api/actualites/3", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/actualites/3", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPut, "/api/actualites/3", "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	router := setupRouter(t)

	token := signToken(t, []byte("another-32-byte-secret-value-xxx"), models.RoleAdmin, time.Hour)
	w := do(router, http.MethodDelete, "/api/users/7", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	router := setupRouter(t)

	token := signToken(t, testSecret, models.RoleAdmin, -time.Minute)
	w := do(router, http.MethodDelete, "/api/users/7", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleBoundary(t *testing.T) {
	router := setupRouter(t)

	editor := signToken(t, testSecret, models.RoleEditor, time.Hour)
	admin := signToken(t, testSecret, models.RoleAdmin, time.Hour)

	// An editor may mutate articles but not users.
	assert.Equal(t, http.StatusOK, do(router, http.MethodPut, "/api/actualites/3", editor).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodDelete, "/api/users/7", editor).Code)

	// An administrator may do both.
	assert.Equal(t, http.StatusOK, do(router, http.MethodPut, "/api/actualites/3", admin).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodDelete, "/api/users/7", admin).Code)
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	old := config.JWTSecret
	config.JWTSecret = testSecret
	t.Cleanup(func() { config.JWTSecret = old })

	router := gin.New()
	router.GET("/articles", OptionalAuth(), func(c *gin.Context) {
		_, authenticated := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	w := do(router, http.MethodGet, "/articles", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = do(router, http.MethodGet, "/articles", "garbage")
	assert.Equal(t, http.StatusOK, w.Code, "a bad token never blocks a public read")
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	token := signToken(t, testSecret, models.RoleEditor, time.Hour)
	w = do(router, http.MethodGet, "/articles", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
