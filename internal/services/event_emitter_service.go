package services

import (
	"sync"

	"go.uber.org/zap"

	"apiforge/internal/events"
)

// EventEmitterService forwards workflow events to a sink, such as the
// terminal, while a stream is running. Events always reach the logger.
type EventEmitterService struct {
	mu      sync.Mutex
	running bool
	logger  *zap.Logger
	sink    events.EmitFunc
}

func NewEventEmitterService(logger *zap.Logger, sink events.EmitFunc) *EventEmitterService {
	e := &EventEmitterService{logger: logger, sink: sink}
	events.EnableLogEmitter(logger)
	return e
}

// StartStream begins forwarding events to the sink. It reports false if a
// stream is already running.
func (e *EventEmitterService) StartStream() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.sink == nil {
		return false
	}
	events.SetCustomEmitter(events.Fanout(events.LogEmitter(e.logger), e.sink))
	e.running = true
	return true
}

func (e *EventEmitterService) StopStream() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	events.EnableLogEmitter(e.logger)
	e.running = false
}

func (e *EventEmitterService) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}
