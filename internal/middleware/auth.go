package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"dappvotes/internal/domain"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// CallerContextKey is the key for the authenticated caller in context
	CallerContextKey ContextKey = "caller"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// TokenValidator resolves a bearer token to the caller it was issued to
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (domain.Address, error)
}

// Auth creates an authentication middleware
func Auth(validator TokenValidator, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, errors.NewAuthenticationError("Authorization header is required"), logger)
				return
			}

			// Check if header starts with "Bearer "
			if !strings.HasPrefix(authHeader, "Bearer ") {
				WriteError(w, r, errors.NewAuthenticationError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				WriteError(w, r, errors.NewAuthenticationError("Token is required"), logger)
				return
			}

			ctx := r.Context()
			caller, err := validator.ValidateToken(ctx, token)
			if err != nil {
				appErr, ok := errors.As(err)
				if !ok {
					appErr = errors.NewAuthenticationError("Invalid or expired token")
				}
				WriteError(w, r, appErr, logger)
				return
			}

			ctx = context.WithValue(ctx, CallerContextKey, caller)
			logger.WithField("caller", caller).Debug("Caller authenticated successfully")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the authenticated caller
func CallerFromContext(ctx context.Context) (domain.Address, bool) {
	caller, ok := ctx.Value(CallerContextKey).(domain.Address)
	return caller, ok && caller != ""
}

// RequestID creates a middleware that adds a unique request ID to each request.
// An incoming X-Request-ID is kept.
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			w.Header().Set("X-Request-ID", requestID)

			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			}).Debug("Request received")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request ID set by RequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// WriteError writes an AppError as the JSON error envelope
func WriteError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, logger *logger.Logger) {
	requestID := RequestIDFromContext(r.Context())
	entry := logger.WithError(appErr).WithFields(map[string]interface{}{
		"request_id": requestID,
		"status":     appErr.StatusCode,
	})
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Info("Request rejected")
	}

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = requestID
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(response)
}
