// Package middleware provides HTTP middleware for the recruiter-facing API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ValidateFunc checks a bearer token and returns the recruiter id it carries.
type ValidateFunc func(token string) (uuid.UUID, error)

// recruiterKey is the context key under which RequireAuth stores the
// authenticated recruiter id.
type recruiterKey struct{}

// ErrNoRecruiter is returned by RecruiterID when the request context carries
// no authenticated recruiter.
var ErrNoRecruiter = errors.New("no authenticated recruiter in request context")

// RequireAuth returns middleware that rejects requests lacking a valid
// bearer token and exposes the authenticated recruiter id to downstream
// handlers through the request context.
func RequireAuth(validate ValidateFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			recruiterID, err := validate(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), recruiterKey{}, recruiterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from an Authorization header. The
// Bearer scheme matches case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RecruiterID returns the authenticated recruiter id set by RequireAuth.
func RecruiterID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(recruiterKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoRecruiter
	}
	return id, nil
}

// WithRecruiterID returns a context carrying the recruiter id exactly as
// RequireAuth would store it. Handler tests use it to simulate an
// authenticated request without going through the middleware.
func WithRecruiterID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, recruiterKey{}, id)
}
