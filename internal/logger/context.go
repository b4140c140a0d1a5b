package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const TraceIDKey contextKey = "trace_id"
const ViewIDKey contextKey = "view_id"

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}

func WithViewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ViewIDKey, id)
}

func GetViewID(ctx context.Context) string {
	if id, ok := ctx.Value(ViewIDKey).(string); ok {
		return id
	}
	return ""
}

// From returns the default logger annotated with whatever ids ctx carries.
func From(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if id := GetTraceID(ctx); id != "" {
		l = l.With("trace_id", id)
	}
	if id := GetViewID(ctx); id != "" {
		l = l.With("view_id", id)
	}
	return l
}
