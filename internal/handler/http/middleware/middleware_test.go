package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/revocation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

type fixture struct {
	jwt     jwt.Service
	revoked revocation.Store
	router  *chi.Mux
	// seen holds the claims of the last request that reached a handler.
	seen jwt.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	f := &fixture{jwt: svc, revoked: revocation.NewMemoryStore()}
	capture := func(w http.ResponseWriter, r *http.Request) {
		f.seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(svc.JWTAuth()))
		r.Use(AuthRequired(f.revoked))
		r.Get("/me", capture)
		r.With(RequireRole(user.RoleAdmin)).Get("/admin", capture)
	})
	f.router = r
	return f
}

func (f *fixture) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken("acc-1", "emp-1", "rina@example.com", role)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.do("/me", "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.do("/me", "not-a-jwt").Code)
	})

	t.Run("sse token is not an access token", func(t *testing.T) {
		sse, _, err := f.jwt.GenerateSSEToken("emp-1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, f.do("/me", sse).Code)
	})

	t.Run("valid token exposes claims", func(t *testing.T) {
		rec := f.do("/me", f.token(t, user.RoleEmployee))
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "acc-1", f.seen.AccountID)
		assert.Equal(t, "emp-1", f.seen.EmployeeID)
		assert.Equal(t, user.RoleEmployee, f.seen.Role)
		assert.NotEmpty(t, f.seen.TokenID)
	})
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, user.RoleEmployee)

	require.Equal(t, http.StatusNoContent, f.do("/me", token).Code)
	require.NoError(t, f.revoked.Revoke(t.Context(), f.seen.TokenID, time.Unix(f.seen.ExpiresAt, 0)))

	assert.Equal(t, http.StatusUnauthorized, f.do("/me", token).Code)
}

func TestRequireRole(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusForbidden, f.do("/admin", f.token(t, user.RoleEmployee)).Code)
	assert.Equal(t, http.StatusNoContent, f.do("/admin", f.token(t, user.RoleAdmin)).Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewKeyedLimiter(0.001, 2)
	h := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000").Code)
	// Same IP, different source port.
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001").Code)

	rec := call("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000").Code)
}
