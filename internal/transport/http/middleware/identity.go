package middleware

import (
	"context"
	"net/http"
	"strings"

	"leavedesk/internal/transport/http/api"
)

// Identity is the opaque actor the external identity provider vouches for.
// The engine does no authentication of its own.
type Identity struct {
	EmployeeID string
	Role       string
}

type ctxKey string

const identityKey ctxKey = "identity"

const (
	HeaderEmployeeID = "X-Employee-ID"
	HeaderRole       = "X-Employee-Role"
)

// WithIdentity reads the caller identity headers into the request context.
// Requests without them pass through; endpoints that need an actor use
// RequireIdentity.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employeeID := strings.TrimSpace(r.Header.Get(HeaderEmployeeID))
		if employeeID == "" {
			next.ServeHTTP(w, r)
			return
		}
		identity := Identity{
			EmployeeID: employeeID,
			Role:       strings.TrimSpace(r.Header.Get(HeaderRole)),
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "identity_required", "caller identity headers missing", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
