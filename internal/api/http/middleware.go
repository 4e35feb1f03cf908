package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"wotro-backend/internal/config"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/service"
)

// AuthMiddleware resolves the route's security level and attaches the
// caller's session. It runs after route matching so the path template is known.
type AuthMiddleware struct {
	auth service.AuthService
}

func NewAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeKey(r))

		switch level {
		case config.SecurityPublic:
			next.ServeHTTP(w, r)
			return
		case config.SecurityRefresh:
			token := extractToken(r)
			if token == "" {
				writeError(w, r, fmt.Errorf("%w: refresh token is not provided", service.ErrUnauthenticated))
				return
			}
			next.ServeHTTP(w, r.WithContext(withRawToken(r.Context(), token)))
			return
		}

		token := extractToken(r)
		if token == "" {
			writeError(w, r, fmt.Errorf("%w: authorization token is not provided", service.ErrUnauthenticated))
			return
		}
		sess, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if level == config.SecurityAdmin && !sess.IsAdmin() {
			writeError(w, r, fmt.Errorf("%w: admin role required", service.ErrForbidden))
			return
		}

		ctx := logger.WithAttrs(withSession(r.Context(), sess), "uid", sess.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// routeKey is "METHOD /path-template" for the matched route.
func routeKey(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.Method + " " + r.URL.Path
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return r.Method + " " + r.URL.Path
	}
	return r.Method + " " + tpl
}

// extractToken reads the bearer token. Streams also accept ?access_token=
// because EventSource cannot set headers.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.HasPrefix(r.URL.Path, "/api/v1/stream/") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// RequestID tags every request with an id that follows it through the logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logger.WithAttrs(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(args ...interface{}) {
	logger.Error("Recovered from panic", "panic", fmt.Sprint(args...))
}

func accessLog(_ io.Writer, p handlers.LogFormatterParams) {
	logger.Info("HTTP request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration_ms", time.Since(p.TimeStamp).Milliseconds(),
	)
}

// Wrap adds panic recovery, access logging, request ids and CORS around the router.
func Wrap(router http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	h := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(router)
	h = RequestID(h)
	h = handlers.CustomLoggingHandler(io.Discard, h, accessLog)
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)(h)
}
