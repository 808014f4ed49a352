// Package middleware carries the request-scoped session and enforces the
// login and admin gates in front of protected routes.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession loads the request's session document into the context. Every
// route runs behind it; handlers mutate their copy and commit it with Save
// before writing the response.
func WithSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := manager.Load(r.Context(), r)
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request's session. It panics outside WithSession,
// which would be a routing bug, not a runtime condition.
func FromContext(ctx context.Context) *session.Session {
	return ctx.Value(sessionContextKey).(*session.Session)
}

// RequireUser redirects unauthenticated requests to the login page. This is
// a control-flow outcome, not an error.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin sessions. Unauthenticated requests go to
// login; authenticated non-admins get a 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromContext(r.Context())
		if !sess.LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !sess.IsAdmin() {
			respondError(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
