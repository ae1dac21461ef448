// Package middleware holds the HTTP middleware chain: request logging, panic
// recovery, session loading, the auth guard and browser method override.
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger emits one structured line per request.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("HTTP")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("Request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recoverer converts a handler panic into the given error response instead of
// killing the connection.
func Recoverer(logger *zap.Logger, respond func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rec)
					}
					logger.Error("Recovered from panic",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec),
					)
					respond(w, r, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Tracing opens one server span per request, continuing a propagated trace
// context when the caller sent one. With no tracer provider installed the
// global no-op provider makes this free.
func Tracing(next http.Handler) http.Handler {
	tracer := otel.Tracer("car-market")
	propagator := otel.GetTextMapPropagator()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(r.Method),
				semconv.HTTPTargetKey.String(r.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(rec.status))
	})
}

// SessionLoader resolves the request's session cookie and puts the session,
// if any, on the context. Anonymous requests pass through with no session.
func SessionLoader(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := mgr.Load(r); sess != nil {
				r = r.WithContext(session.WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth guards a route group: anonymous visitors get a notice and a
// redirect to the login page.
func RequireAuth(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}
			mgr.Flash(w, r, "error", "You must be signed in to do that")
			http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		})
	}
}

// MethodOverride lets HTML forms issue PUT and DELETE through a "_method"
// hint, read from the query string first and the urlencoded body second.
// Multipart bodies are left untouched so file streams are not consumed here.
func MethodOverride(next http.Handler) http.Handler {
	allowed := map[string]bool{
		http.MethodPut:    true,
		http.MethodDelete: true,
		http.MethodPatch:  true,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				if err := r.ParseForm(); err == nil {
					override = r.PostFormValue("_method")
				}
			}
			if method := strings.ToUpper(override); allowed[method] {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
