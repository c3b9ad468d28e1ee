// Package server provides the HTTP REST API for the candidate matching service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonathan/candidate-matcher/internal/config"
	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/pipeline"
	"github.com/jonathan/candidate-matcher/internal/server/middleware"
	"github.com/jonathan/candidate-matcher/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer       *http.Server
	db               *db.DB
	deps             *pipeline.Deps
	executor         *pipeline.Executor
	rateLimiter      *ratelimit.Limiter
	jwtService       *JWTService
	recruiterService *RecruiterService
	authHandler      *AuthHandler
	verbose          bool
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Workers     int
	Embedding   embedding.Config
	Verbose     bool

	// Now overrides the clock used for tenure math. Nil means time.Now.
	Now func() time.Time
}

// New creates a new server instance. Background jobs submitted through the
// API run on ctx, so it must outlive the server.
func New(ctx context.Context, cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	// Assemble the matching pipeline. The taxonomy snapshot loads here, so
	// a server start against an unseeded database fails fast.
	deps, err := pipeline.Build(ctx, database, pipeline.BuildOptions{
		APIKey:    cfg.APIKey,
		Embedding: cfg.Embedding,
		Verbose:   cfg.Verbose,
		Now:       cfg.Now,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	s := &Server{
		db:       database,
		deps:     deps,
		executor: pipeline.NewExecutor(ctx, database, deps, cfg.Workers),
		verbose:  cfg.Verbose,
	}

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		deps.Close()
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.recruiterService = NewRecruiterService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		deps.Close()
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.recruiterService, s.jwtService)

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Setup router
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(s.jwtService.Authenticate)

	// Job endpoints (Bearer token required)
	mux.Handle("POST /jobs/candidate", requireAuth(http.HandlerFunc(s.handleSubmitCandidateJob)))
	mux.Handle("POST /jobs/employer", requireAuth(http.HandlerFunc(s.handleSubmitEmployerJob)))
	mux.Handle("GET /jobs/{job_id}", requireAuth(http.HandlerFunc(s.handleGetJob)))
	// EventSource cannot set an Authorization header; the unguessable job
	// id is the capability here.
	mux.HandleFunc("GET /jobs/{job_id}/events", s.handleJobEvents)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Recruiter auth endpoints
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("PUT /auth/password", requireAuth(http.HandlerFunc(s.handleUpdatePassword)))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for SSE progress streams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Accepted jobs keep running after Shutdown returns. Drain them before
	// closing the pool they write to.
	s.executor.Wait()

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.deps.Close()
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles requests per client IP and endpoint.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles recruiter registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles recruiter login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests for the
// authenticated recruiter.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	recruiterID, err := middleware.RecruiterID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithRecruiterID(w, r, recruiterID)
}

// clientIP keys rate limiting by the caller's remote IP. Trusting
// X-Forwarded-For would let clients spoof their identity.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders exposes limiter state on the response. Unlimited
// requests carry no headers.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}

// rateLimitResponse rejects the request with 429 and retry guidance.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	body := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		body["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Printf("[rate-limit] blocked client limit=%d remaining=%d reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, body)
}
