package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validateExact returns a ValidateFunc that accepts exactly one token.
func validateExact(token string, id uuid.UUID) ValidateFunc {
	return func(got string) (uuid.UUID, error) {
		if got != token {
			return uuid.Nil, errors.New("invalid token")
		}
		return id, nil
	}
}

func rejectAll(string) (uuid.UUID, error) {
	return uuid.Nil, errors.New("invalid token")
}

func TestRequireAuth_ValidToken(t *testing.T) {
	recruiterID := uuid.New()

	called := false
	var seen uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, err := RecruiterID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequireAuth(validateExact("valid-test-token", recruiterID))(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-test-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.True(t, called, "handler should run")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recruiterID, seen)
}

func TestRequireAuth_CaseInsensitiveScheme(t *testing.T) {
	recruiterID := uuid.New()

	for _, scheme := range []string{"Bearer", "bearer", "BEARER", "BeArEr"} {
		t.Run(scheme, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			wrapped := RequireAuth(validateExact("tok", recruiterID))(handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", scheme+" tok")
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.True(t, called)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", "token123"},
		{"scheme only", "Bearer"},
		{"trailing space only", "Bearer "},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"extra parts", "Bearer one two"},
		{"invalid token", "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				called = true
			})

			wrapped := RequireAuth(rejectAll)(handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.False(t, called, "handler should not run")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestRecruiterID(t *testing.T) {
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithRecruiterID(req.Context(), id))

	got, err := RecruiterID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRecruiterID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	got, err := RecruiterID(req)
	assert.ErrorIs(t, err, ErrNoRecruiter)
	assert.Equal(t, uuid.Nil, got)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer  abc", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"abc", "", false},
		{"Basic abc", "", false},
	}

	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}
