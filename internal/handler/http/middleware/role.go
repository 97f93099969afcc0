package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
)

// RequireRole allows the request through only when the caller holds one of
// roles. Mount it after AuthRequired.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			if len(roles) == 1 && roles[0] == user.RoleAdmin {
				response.HandleError(w, user.ErrAdminPrivilegeRequired)
				return
			}
			response.HandleError(w, user.ErrInsufficientRole)
		})
	}
}
