package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/cmd/api/config"
	mw "github.com/vpsdeck/vpsdeck/lib/middleware"
	"go.opentelemetry.io/otel/metric/noop"
)

const testJWTSecret = "test-secret-key"

func generateValidJWT(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString([]byte(testJWTSecret))
}

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{JwtSecret: testJWTSecret, NotificationLimit: 10}
	app := initializeApp(cfg, noop.NewMeterProvider().Meter("test"))

	r := chi.NewRouter()
	r.Get("/health", app.ApiService.GetHealth)
	r.Group(func(r chi.Router) {
		r.Use(mw.JwtAuth(testJWTSecret))
		app.ApiService.Routes(r)
	})
	return r
}

func TestHealthIsUnauthenticated(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestProvidersRequireAuth(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/providers", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProvidersWithValidJWT(t *testing.T) {
	router := setupTestRouter(t)
	token, err := generateValidJWT("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/providers", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vultr")
	assert.Contains(t, w.Body.String(), "bandwagon")
	assert.Contains(t, w.Body.String(), "digitalocean")
}

func TestInvalidJWTIsRejected(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/providers", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
