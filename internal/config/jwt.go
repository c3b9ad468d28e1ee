package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultTokenTTL is the session token lifetime used when
// JWT_EXPIRATION_HOURS is not set.
const DefaultTokenTTL = 24 * time.Hour

// JWTConfig holds the signing secret and lifetime for recruiter session
// tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS from the
// environment.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	ttl := DefaultTokenTTL
	if raw := os.Getenv("JWT_EXPIRATION_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		if hours < 1 {
			return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1, got %d", hours)
		}
		ttl = time.Duration(hours) * time.Hour
	}

	return &JWTConfig{Secret: secret, TTL: ttl}, nil
}
