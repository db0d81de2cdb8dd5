package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"distr/logger"
	"distr/model"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// currentUser returns the authenticated caller, or nil for anonymous requests.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("request",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// corsMiddleware handles cross-origin requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolveToken extracts and validates a bearer token, returning the account
// it belongs to. A nil user with nil error means no token was presented.
// Browser WebSocket clients cannot set request headers during the handshake,
// so a token query parameter is accepted when the header is absent.
func (s *Server) resolveToken(r *http.Request) (*model.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			return nil, nil
		}
		return s.resolveUser(r, tokenString)
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return nil, errInvalidAuthHeader
	}
	return s.resolveUser(r, tokenString)
}

func (s *Server) resolveUser(r *http.Request, tokenString string) (*model.User, error) {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUnknownAccount
	}
	return user, nil
}

var (
	errInvalidAuthHeader = &authError{"invalid authorization header"}
	errUnknownAccount    = &authError{"account no longer exists"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }

// authRequired rejects requests without a valid token.
func (s *Server) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveToken(r)
		if err != nil {
			writeAuthError(w, "invalid or expired token")
			return
		}
		if user == nil {
			writeAuthError(w, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authOptional attaches the caller identity when a valid token is present but
// lets anonymous requests through. Used on open endpoints whose behavior
// still depends on who is asking.
func (s *Server) authOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveToken(r)
		if err != nil {
			writeAuthError(w, "invalid or expired token")
			return
		}
		if user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
