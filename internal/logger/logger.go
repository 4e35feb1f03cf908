package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var base atomic.Pointer[slog.Logger]

type ctxKey struct{}

// Initialize installs the process logger on stdout. Unknown levels fall
// back to info; format "json" selects the JSON handler, anything else text.
func Initialize(level, format string) {
	InitializeWithWriter(os.Stdout, level, format)
}

func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	l := slog.New(h)
	base.Store(l)
	slog.SetDefault(l)
}

func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func current() *slog.Logger {
	if l := base.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }
func Info(msg string, args ...any)  { current().Info(msg, args...) }
func Warn(msg string, args ...any)  { current().Warn(msg, args...) }
func Error(msg string, args ...any) { current().Error(msg, args...) }

// The Context variants log through the request-scoped logger set by WithAttrs.
func DebugContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).ErrorContext(ctx, msg, args...)
}

// WithAttrs returns a context whose logger carries args, e.g. request_id
// and uid set by the HTTP middleware. Calls accumulate.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, fromContext(ctx).With(args...))
}

func fromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return current()
}

// EnterMethod, ExitMethod and ExitMethodWithError trace service methods at
// debug level. A failed exit is logged as an error.
func EnterMethod(method string, args ...any) {
	current().Debug("enter "+method, args...)
}

func ExitMethod(method string, args ...any) {
	current().Debug("exit "+method, args...)
}

func ExitMethodWithError(method string, err error, args ...any) {
	current().Error("exit "+method, append(args, "error", err)...)
}

// StoreCall and StoreResult bracket a Firestore or Postgres operation.
func StoreCall(store, operation, target string, args ...any) {
	current().Debug("store call", append([]any{"store", store, "op", operation, "target", target}, args...)...)
}

func StoreResult(store, operation string, affected int64, err error, args ...any) {
	done(err, "store call", append([]any{"store", store, "op", operation, "affected", affected}, args...))
}

// ExternalServiceCall and ExternalServiceResult bracket a request to
// Firebase, SendGrid, Twilio or another outside API.
func ExternalServiceCall(service, operation string, args ...any) {
	current().Debug("external call", append([]any{"service", service, "op", operation}, args...)...)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	done(err, "external call", append([]any{"service", service, "op", operation}, args...))
}

func done(err error, what string, args []any) {
	if err != nil {
		current().Error(what+" failed", append(args, "error", err)...)
		return
	}
	current().Debug(what+" ok", args...)
}
