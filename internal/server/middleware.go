package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sanoria/pricingservice/internal/auth"
	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/log"
	"github.com/sanoria/pricingservice/internal/metrics"
	"github.com/sanoria/pricingservice/internal/tracing"
)

// RequestLogging attaches the chi request ID to the logging context and
// records structured request logs plus Prometheus metrics per request.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := log.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		duration := time.Since(start)
		endpoint := routePattern(r)
		metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(ww.Status()), duration)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", duration),
		}
		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		log.Info(ctx, "http request", fields...)
	})
}

// AdminOnly rejects requests that do not carry a valid admin bearer token
func AdminOnly(validator *auth.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				writeError(w, http.StatusServiceUnavailable, domain.ErrCodeInternal,
					"admin API is not configured", "")
				return
			}
			if _, err := validator.ValidateToken(r.Header.Get("Authorization")); err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid admin token", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// routePattern prefers chi's route pattern over the raw path so metric
// labels stay low-cardinality (/api/v1/cart/{sessionID}, not every UUID).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
