package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/charvi/pkg/auth"
	"github.com/shashiranjanraj/charvi/pkg/response"
	"github.com/shashiranjanraj/charvi/pkg/session"
)

// SessionAdminKey is the session entry holding the authenticated admin's ID.
const SessionAdminKey = "admin_id"

type adminCtxKey struct{}

// AdminOnly guards mutating endpoints. A request is admitted when its session
// carries an admin_id (browser panel), or when it presents a valid Bearer API
// token (scripts, CI). Anything else is rejected with 401 before any storage
// call happens.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := session.FromCtx(r).GetString(SessionAdminKey); ok && id != "" {
			next.ServeHTTP(w, r.WithContext(withAdminID(r.Context(), id)))
			return
		}

		if bearer := bearerToken(r); bearer != "" {
			claims, err := auth.ValidateToken(bearer)
			if err == nil && claims.AdminID != "" {
				next.ServeHTTP(w, r.WithContext(withAdminID(r.Context(), claims.AdminID)))
				return
			}
		}

		response.Unauthorized(w, "Authentication required")
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func withAdminID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, adminCtxKey{}, id)
}

// AdminID returns the authenticated admin's ID from the request context, or
// "" on public routes.
func AdminID(ctx context.Context) string {
	if id, ok := ctx.Value(adminCtxKey{}).(string); ok {
		return id
	}
	return ""
}
