package bus

import (
	"context"

	"github.com/ericman314/pinewood-server/internal/realtime"
)

// Envelope is what travels between processes. Exactly one of Descriptors
// (subscription-filtered fan-out) or Message (unconditional broadcast) is set.
type Envelope struct {
	Descriptors []realtime.ChangeDescriptor `json:"descriptors,omitempty"`
	Message     *realtime.Message           `json:"message,omitempty"`
}

// Bus relays envelopes to every process so each can fan out to its own
// registry.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	StartForwarder(ctx context.Context, onMsg func(env Envelope)) error
	Close() error
}

// Deliver applies an envelope to a local hub.
func Deliver(hub *realtime.Hub, env Envelope) {
	if hub == nil {
		return
	}
	if env.Message != nil {
		hub.Broadcast(*env.Message)
		return
	}
	hub.Notify(env.Descriptors)
}
