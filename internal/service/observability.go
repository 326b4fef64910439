package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/planboard/internal/app"
)

// UseCaseEvent is the telemetry of one store entry point.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Result    app.Result
	// Err is set only for persistence failures.
	Err    error
	Fields map[string]any
}

// Rejected reports a validation refusal: nothing was saved, nothing failed.
func (e UseCaseEvent) Rejected() bool {
	return e.Err == nil && !e.Result.OK
}

// UseCaseObserver receives one event per store entry point.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs store use cases as "store_use_case" records:
// info on success, warn on a rejected edit, error on a failed save.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]slog.Attr, 0, 5+len(event.Fields))
	attrs = append(attrs,
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("ok", event.Result.OK),
	)
	if event.Result.Degraded {
		attrs = append(attrs, slog.Bool("degraded", true))
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelInfo
	switch {
	case event.Err != nil:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	case event.Rejected():
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("reason", event.Result.Message))
	}
	o.logger.LogAttrs(ctx, level, "store_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
