package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleService_RedirectURL(t *testing.T) {
	svc := NewGoogleService("client-id", "secret", "http://localhost:8080/api/v1/auth/oauth/callback/google", nil)

	state, err := svc.GenerateState()
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	other, err := svc.GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, state, other)

	u, err := url.Parse(svc.RedirectURL(state))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "http://localhost:8080/api/v1/auth/oauth/callback/google", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestGoogleService_UserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ana@example.com","verified_email":true,"name":"Ana"}`))
	}))
	defer srv.Close()

	svc := NewGoogleService("client-id", "secret", "http://localhost/cb", nil).(*googleService)
	svc.userInfoURL = srv.URL

	user, err := svc.UserInfo(context.Background(), &oauth2.Token{AccessToken: "access-123", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.VerifiedEmail)
}

func TestGoogleService_UserInfoRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewGoogleService("client-id", "secret", "http://localhost/cb", nil).(*googleService)
	svc.userInfoURL = srv.URL

	_, err := svc.UserInfo(context.Background(), &oauth2.Token{AccessToken: "bad"})
	assert.Error(t, err)
}
