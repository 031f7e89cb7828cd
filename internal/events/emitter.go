package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type EmitFunc func(ctx context.Context, name string, evt Event)

var (
	emitMu sync.RWMutex
	emit   EmitFunc = func(context.Context, string, Event) {}
)

// Emit publishes evt under name, filling in the session key from ctx.
func Emit(ctx context.Context, name string, evt Event) {
	if evt.SessionKey == "" {
		evt.SessionKey = SessionFromContext(ctx)
	}
	emitMu.RLock()
	f := emit
	emitMu.RUnlock()
	f(ctx, name, evt)
}

// EnableLogEmitter routes every event to logger, at a level matching its type.
func EnableLogEmitter(logger *zap.Logger) {
	SetCustomEmitter(LogEmitter(logger))
}

// LogEmitter writes events to logger.
func LogEmitter(logger *zap.Logger) EmitFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, name string, evt Event) {
		logEvent(logger, name, evt)
	}
}

// SetCustomEmitter replaces the active emitter; nil disables emission.
func SetCustomEmitter(f EmitFunc) {
	if f == nil {
		f = func(context.Context, string, Event) {}
	}
	emitMu.Lock()
	emit = f
	emitMu.Unlock()
}

// Fanout combines emitters so each receives every event.
func Fanout(fs ...EmitFunc) EmitFunc {
	return func(ctx context.Context, name string, evt Event) {
		for _, f := range fs {
			if f != nil {
				f(ctx, name, evt)
			}
		}
	}
}

func logEvent(logger *zap.Logger, name string, evt Event) {
	fields := []zap.Field{
		zap.String("event", name),
		zap.String("event_id", evt.ID),
	}
	if evt.SessionKey != "" {
		fields = append(fields, zap.String("session", evt.SessionKey))
	}
	for k, v := range evt.Metadata {
		fields = append(fields, zap.String(k, v))
	}

	switch evt.Type {
	case EventError:
		logger.Error(evt.Message, fields...)
	case EventWarn:
		logger.Warn(evt.Message, fields...)
	default:
		logger.Info(evt.Message, fields...)
	}
}
