package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule is the throttle for one endpoint. A Limit of zero or less means
// unlimited; Burst falls back to Limit when unset. Paths ending in "/"
// match by prefix.
type Rule struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds limiter settings. Whitelisted clients bypass throttling
// entirely; blacklisted clients are always refused.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	Rules           []Rule
}

// LoadConfig reads limiter settings from RATE_LIMIT_* environment
// variables, falling back to defaults sized for the matching API.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       splitClientList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       splitClientList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint throttles. Job submissions fan out
// to LLM and embedding calls, so they are far stricter than the auth
// endpoints; reads ride on the default limit.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/jobs/candidate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/jobs/employer", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		{Path: "/auth/register", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/auth/login", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/auth/password", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// match resolves the rule for a request. Health checks are never limited,
// exact path matches win over prefix rules, and anything unmatched falls
// back to the default limit.
func (c *Config) match(path, method string) Rule {
	if path == "/health" && method == http.MethodGet {
		return Rule{}
	}

	for _, r := range c.Rules {
		if r.Method == method && r.Path == path {
			return r
		}
	}
	for _, r := range c.Rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}

	return Rule{Limit: c.DefaultLimit, Window: c.DefaultWindow}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitClientList parses a comma-separated list of client ids (IP
// addresses) into a lookup set.
func splitClientList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, entry := range strings.Split(list, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			set[entry] = true
		}
	}
	return set
}
