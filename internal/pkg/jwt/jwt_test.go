package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService(testSecret, "7 days")
	assert.Error(t, err)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newService(t)

	token, expiresAt, err := svc.GenerateAccessToken("acc-1", "emp-1", "a@b.io", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	m, err := parsed.AsMap(context.Background())
	require.NoError(t, err)

	claims, ok := ClaimsFromMap(m)
	require.True(t, ok)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
	assert.Equal(t, expiresAt, claims.ExpiresAt)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.Actor().IsAdmin())
}

func TestGenerateAccessToken_UniqueTokenIDs(t *testing.T) {
	svc := newService(t)
	a, _, err := svc.GenerateAccessToken("acc-1", "emp-1", "a@b.io", user.RoleEmployee)
	require.NoError(t, err)
	b, _, err := svc.GenerateAccessToken("acc-1", "emp-1", "a@b.io", user.RoleEmployee)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSSEToken(t *testing.T) {
	svc := newService(t)

	token, expiresIn, err := svc.GenerateSSEToken("emp-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-9", employeeID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newService(t)
	access, _, err := svc.GenerateAccessToken("acc-1", "emp-1", "a@b.io", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestClaimsFromMap_RejectsWrongTypeOrRole(t *testing.T) {
	_, ok := ClaimsFromMap(map[string]interface{}{"type": "sse", "account_id": "a", "role": "admin"})
	assert.False(t, ok)
	_, ok = ClaimsFromMap(map[string]interface{}{"type": "access", "account_id": "a", "role": "owner"})
	assert.False(t, ok)
}
