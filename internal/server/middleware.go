package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"sslmon/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const loggerContextKey = logger.LoggerContextKey

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID returns 8 lowercase hex characters.
func generateRequestID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate request id: %w", err)
	}
	return id.String()[:8], nil
}

// RequestIDMiddleware reuses a well-formed incoming X-Request-ID or generates
// one, echoes it in the response and stores a request-scoped logger in the
// context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(requestID) {
			id, err := generateRequestID()
			if err != nil {
				logger.Get().Warn("request id generation failed", slog.String("error", err.Error()))
				id = "unknown"
			}
			requestID = id
		}

		w.Header().Set(RequestIDHeader, requestID)

		reqLogger := logger.Get().With(slog.String("request_id", requestID))
		ctx := context.WithValue(r.Context(), loggerContextKey, reqLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLoggerFromContext returns the request logger, or fallback when the
// request did not pass through RequestIDMiddleware.
func GetLoggerFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return logger.GetFromContext(ctx, fallback)
}

// LoggingMiddleware logs HTTP requests with method, path, status, duration, and client details
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		GetLoggerFromContext(r.Context(), logger.Get()).Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.Header.Get("User-Agent")),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("duration", time.Since(start)))
	})
}
