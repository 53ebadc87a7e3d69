package middleware

import (
	"net/http"

	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/pkg/response"
)

// RequireRole checks the authenticated identity's role against an allowed
// set. Gating is role-based; the stored permission set is derived from the
// same registry at account creation, so switching to permission gating later
// changes only this file.
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRoleID := range allowedRoleIDs {
				if roleID == allowedRoleID {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireAuthority gates authority endpoints (admins included)
func RequireAuthority(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDAuthority)(next)
}

// RequireVolunteer gates volunteer endpoints (admins and authorities included)
func RequireVolunteer(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDAuthority, entity.RoleIDVolunteer)(next)
}
