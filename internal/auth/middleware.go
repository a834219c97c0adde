package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var identityKey contextKey

// Identity returns the authenticated email stored by Middleware, or "" if the
// request never passed through it.
func Identity(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// Middleware enforces bearer authentication. Expects "Authorization: Bearer <token>"
// and rejects everything else with a fixed 401; no detail about why verification
// failed crosses the boundary.
func (iss *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w)
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w)
			return
		}

		email, err := iss.Resolve(parts[1])
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
}
