package pipeline

import (
	"context"
	"log/slog"
)

// Event is a status signal surfaced to the caller: info, warning or error.
type Event struct {
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
	Err     error
}

// EventSink receives pipeline events as they happen.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(ev Event) { f(ev) }

// LogSink forwards events to a slog logger.
type LogSink struct {
	Logger *slog.Logger
}

// Emit implements EventSink.
func (s LogSink) Emit(ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := ev.Attrs
	if ev.Err != nil {
		attrs = append(attrs[:len(attrs):len(attrs)], slog.Any("error", ev.Err))
	}
	logger.LogAttrs(context.Background(), ev.Level, ev.Message, attrs...)
}
