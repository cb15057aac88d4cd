package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/logger"
)

type ctxKey string

const clientIDKey ctxKey = "clientID"

func clientIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(clientIDKey).(int64)
	return id, ok
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)
		observeResponse(elapsed, wrapped.status)
		logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.status),
			zap.Duration("elapsed", elapsed),
		)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAuth resolves the caller's identity: the session cookie first,
// then a bearer token. The resolved client id travels in the request
// context.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if clientID, ok := s.sessions.Get(cookie.Value); ok {
				next.ServeHTTP(w, withClientID(r, clientID))
				return
			}
		}

		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			clientID, err := s.auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err == nil {
				next.ServeHTTP(w, withClientID(r, clientID))
				return
			}
			logger.Warn("rejected bearer token", zap.Error(err))
		}

		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	})
}

func withClientID(r *http.Request, clientID int64) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), clientIDKey, clientID))
}
