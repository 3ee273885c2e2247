// Package logger provides the structured, levelled logger for Charvi, built
// on log/slog.
//
// Handlers call WithCtx to get a logger pre-tagged with the request ID, so
// every log line from a request is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", p.ID)
//	// → time=... level=INFO msg="product created" request_id=a1b2c3d4 product_id=...
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/charvi/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	if config.Production() {
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stdout, opts) // structured JSON for log aggregators
	} else {
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stdout, opts) // human-readable for dev
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// AttachMongoSink fans the current handler out to an asynchronous MongoDB
// sink. Called once at startup when MONGO_URI is configured; returns the
// handler so the server can Close it on shutdown.
func AttachMongoSink(uri, db, collection string) (*MongoHandler, error) {
	mh, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return nil, err
	}

	L = slog.New(NewMultiHandler(L.Handler(), mh))
	slog.SetDefault(L)
	return mh, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the Logger middleware,
// or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
