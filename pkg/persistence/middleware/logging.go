package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.RunStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures at warn.
// A missing run is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, id string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if id != "" {
		attrs = append(attrs, "id", id)
	}
	if err != nil && !errors.Is(err, domain.ErrRunNotFound) {
		m.logger.WarnContext(ctx, "store call failed", append(attrs, "error", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, run *domain.Run) error {
	start := time.Now()
	err := m.next.Save(ctx, run)
	m.log(ctx, "save", run.ID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*domain.Run, error) {
	start := time.Now()
	run, err := m.next.Load(ctx, id)
	m.log(ctx, "load", id, start, err)
	return run, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log(ctx, "delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return ids, err
}
