package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/auth"
)

func newAuthService() *auth.Service {
	return auth.NewService(auth.Config{
		SigningKey: "test-signing-key",
		Issuer:     "https://api.aircast.dev",
	})
}

func protectedHandler(t *testing.T, svc *auth.Service, role string) http.Handler {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaims(r.Context())
		require.NotNil(t, claims)
		w.WriteHeader(http.StatusOK)
	})

	var handler http.Handler = inner
	if role != "" {
		handler = middleware.RequireRole(role)(handler)
	}
	return middleware.RequestID(middleware.Auth(svc)(handler))
}

func TestAuth_ValidToken(t *testing.T) {
	svc := newAuthService()
	token, _, err := svc.GenerateToken("ops-cli", auth.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	protectedHandler(t, svc, "").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/history", nil)

	rec := httptest.NewRecorder()
	protectedHandler(t, newAuthService(), "").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestAuth_MalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/history", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	rec := httptest.NewRecorder()
	protectedHandler(t, newAuthService(), "").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/history", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := httptest.NewRecorder()
	protectedHandler(t, newAuthService(), "").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_RejectsWrongRole(t *testing.T) {
	svc := newAuthService()
	token, _, err := svc.GenerateToken("reader", "viewer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	protectedHandler(t, svc, auth.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	svc := newAuthService()
	token, _, err := svc.GenerateToken("ops-cli", auth.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	protectedHandler(t, svc, auth.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
