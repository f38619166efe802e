package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_GenererEtValiderToken(t *testing.T) {
	am := NewAuthMiddleware("secret-de-test-suffisamment-long", "port-actifs")

	token, err := am.GenererToken(7, "admin@port.ma", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := am.ValiderToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin@port.ma", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestAuthMiddleware_TokenExpire(t *testing.T) {
	am := NewAuthMiddleware("secret-de-test-suffisamment-long", "port-actifs")

	token, err := am.GenererToken(7, "admin@port.ma", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = am.ValiderToken(token)
	assert.Error(t, err)
}

func TestAuthMiddleware_MauvaisSecret(t *testing.T) {
	emetteur := NewAuthMiddleware("secret-un", "port-actifs")
	verificateur := NewAuthMiddleware("secret-deux", "port-actifs")

	token, err := emetteur.GenererToken(1, "x@port.ma", "inspecteur", time.Hour)
	require.NoError(t, err)

	_, err = verificateur.ValiderToken(token)
	assert.Error(t, err)
}

func TestAuthMiddleware_RequireAuthEtRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware("secret-de-test-suffisamment-long", "port-actifs")

	r := gin.New()
	r.GET("/protege", am.RequireAuth(), am.RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// Sans jeton
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protege", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Jeton valide mais rôle insuffisant
	token, err := am.GenererToken(2, "tech@port.ma", "technicien", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protege", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Jeton admin
	token, err = am.GenererToken(1, "admin@port.ma", "admin", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/protege", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
