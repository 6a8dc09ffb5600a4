package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/idcard-hub/idcard-menu-services/internal/authn"
	"github.com/idcard-hub/idcard-menu-services/internal/metrics"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// JWTMiddleware parses the JWT token and adds claims to the request context.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().
				Str("handler", "JWTMiddleware").Logger()

			// Get the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug().Msg("authorization header missing")
				WriteFailure(w, http.StatusUnauthorized, "authorization header missing")
				return
			}

			// Check the Authorization header format
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				logger.Error().Msg("invalid token format")
				WriteFailure(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			// Parse the token for JWT claims
			claims, err := authn.ParseClaims(token)
			if err != nil {
				logger.Error().Err(err).Msg("invalid bearer jwt token")
				WriteFailure(w, http.StatusUnauthorized, "invalid bearer jwt token")
				return
			}

			// Add the token and claims to the context
			ctx := context.WithValue(r.Context(), TokenKey, token)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Metrics counts requests by method, route template and status code.
func Metrics(counter metrics.IncrementalCounter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
				next.ServeHTTP(rec, r)

				route := "unmatched"
				if current := mux.CurrentRoute(r); current != nil {
					if tmpl, err := current.GetPathTemplate(); err == nil {
						route = tmpl
					}
				}
				counter.Increment(r.Method, route, strconv.Itoa(rec.status))
			},
		)
	}
}

// WriteFailure writes an unsuccessful MenuResponse envelope.
func WriteFailure(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(models.MenuResponse{Success: false, Message: message}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// NotFound answers unmatched routes with an envelope.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteFailure(w, http.StatusNotFound, "Route not found")
	})
}

// MethodNotAllowed answers a known route called with the wrong method.
func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
