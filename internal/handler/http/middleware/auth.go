package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/revocation"
	"github.com/go-chi/jwtauth/v5"
)

type claimsKey struct{}

// AuthRequired rejects requests without a valid, unrevoked access token and
// stores its claims on the request context. It runs after jwtauth.Verifier.
func AuthRequired(revoked revocation.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, raw, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, ok := jwt.ClaimsFromMap(raw)
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if claims.TokenID != "" {
				isRevoked, err := revoked.IsRevoked(r.Context(), claims.TokenID)
				if err != nil {
					slog.Error("failed to check token revocation", "jti", claims.TokenID, "error", err)
					response.InternalServerError(w, "An unexpected error occurred")
					return
				}
				if isRevoked {
					response.HandleError(w, auth.ErrTokenRevoked)
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// ClaimsFromContext returns the claims stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwt.Claims)
	return c, ok
}

// ActorFromContext returns the authenticated caller.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return user.Actor{}, false
	}
	return c.Actor(), true
}

// WithClaims returns a copy of ctx carrying c. Used by handler tests.
func WithClaims(ctx context.Context, c jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}
