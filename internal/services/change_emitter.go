package services

import (
	"context"
	"sync"
	"time"

	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/realtime/bus"
)

const (
	busPublishTimeout   = 3 * time.Second
	defaultPublishQueue = 256
)

// ChangeEmitter hands change descriptors to the push layer. Emitting never
// fails the caller; delivery is best effort.
type ChangeEmitter interface {
	Notify(ctx context.Context, descriptors []realtime.ChangeDescriptor)
	Broadcast(ctx context.Context, msg realtime.Message)
}

// HubEmitter delivers straight into this process's registry.
type HubEmitter struct{ Hub *realtime.Hub }

func (e *HubEmitter) Notify(ctx context.Context, descriptors []realtime.ChangeDescriptor) {
	e.Hub.Notify(descriptors)
}

func (e *HubEmitter) Broadcast(ctx context.Context, msg realtime.Message) {
	e.Hub.Broadcast(msg)
}

// BusEmitter publishes to the cross-process bus; every process, including
// this one, delivers what it receives from the bus forwarder. Publishing
// happens on a worker goroutine so the triggering request never waits on the
// broker. A full queue drops the envelope with a warning.
type BusEmitter struct {
	bus bus.Bus
	log *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan queuedEnvelope
	done   chan struct{}
}

// queuedEnvelope keeps the request's values (trace ids) without its
// cancellation, which fires as soon as the response is written.
type queuedEnvelope struct {
	ctx context.Context
	env bus.Envelope
}

func NewBusEmitter(log *logger.Logger, b bus.Bus, queueSize int) *BusEmitter {
	if queueSize <= 0 {
		queueSize = defaultPublishQueue
	}
	e := &BusEmitter{
		bus:   b,
		log:   log.With("component", "BusEmitter"),
		queue: make(chan queuedEnvelope, queueSize),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *BusEmitter) Notify(ctx context.Context, descriptors []realtime.ChangeDescriptor) {
	if len(descriptors) == 0 {
		return
	}
	e.enqueue(ctx, bus.Envelope{Descriptors: descriptors})
}

func (e *BusEmitter) Broadcast(ctx context.Context, msg realtime.Message) {
	e.enqueue(ctx, bus.Envelope{Message: &msg})
}

// Close stops accepting envelopes and waits for the queued ones to be
// published.
func (e *BusEmitter) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()
	<-e.done
}

func (e *BusEmitter) enqueue(ctx context.Context, env bus.Envelope) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.log.Warn("Dropping realtime update; emitter closed")
		return
	}
	select {
	case e.queue <- queuedEnvelope{ctx: context.WithoutCancel(ctx), env: env}:
	default:
		e.log.Warn("Dropping realtime update; publish queue full", "queued", len(e.queue))
	}
}

func (e *BusEmitter) run() {
	defer close(e.done)
	for q := range e.queue {
		e.publish(q.ctx, q.env)
	}
}

func (e *BusEmitter) publish(ctx context.Context, env bus.Envelope) {
	ctx, cancel := context.WithTimeout(ctx, busPublishTimeout)
	defer cancel()
	if err := e.bus.Publish(ctx, env); err != nil {
		e.log.Warn("Failed to publish realtime update", "error", err)
	}
}
