package snapshot

import (
	"context"
	"fmt"
	"log/slog"
)

// Source is one external data source normalized into part of the Snapshot.
// Fetch makes a single attempt; Fallback is the static value used when it fails.
type Source[T any] interface {
	Name() string
	Fetch(ctx context.Context) (T, error)
	Fallback() T
}

// Result is the uniform outcome of resolving a Source: either the live value
// or the source's fallback together with the reason.
type Result[T any] struct {
	Value    T
	Fallback bool
	Reason   ErrorKind
	Err      error
}

// Resolve fetches from src and substitutes its fallback on any error or panic.
// It never fails.
func Resolve[T any](ctx context.Context, src Source[T], logger *slog.Logger) Result[T] {
	logger = resolveLogger(logger).With("source", src.Name())
	logger.Info("fetching source")

	v, err := safeFetch(ctx, src)
	if err != nil {
		kind := KindOf(err)
		fb := src.Fallback()
		logger.Warn("source failed; using fallback",
			"reason", string(kind),
			"error", err,
			"fallback", fb,
		)
		return Result[T]{Value: fb, Fallback: true, Reason: kind, Err: err}
	}
	return Result[T]{Value: v}
}

func safeFetch[T any](ctx context.Context, src Source[T]) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			v = zero
			err = Malformed(fmt.Errorf("panic: %v", rec))
		}
	}()
	return src.Fetch(ctx)
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
