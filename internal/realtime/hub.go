package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	defaultBufferSize = 16
	defaultHeartbeat  = 15 * time.Second
)

// Hub is the registry of live sessions and the fan-out point for change
// descriptors. Registry mutations take the write lock; scans take the read
// lock, so a broadcast never observes a half-updated subscription set.
type Hub struct {
	mu       sync.RWMutex
	logger   *logger.Logger
	sessions map[string]*Session

	bufferSize int
	heartbeat  time.Duration
	clock      clock.Clock
	observer   DeliveryObserver
}

// DeliveryObserver is told the outcome of every hand-off to a session.
type DeliveryObserver interface {
	ObserveDelivery(event string, delivered bool)
}

type Option func(*Hub)

func WithObserver(o DeliveryObserver) Option {
	return func(h *Hub) { h.observer = o }
}

func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

func WithHeartbeat(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(h *Hub) {
		if c != nil {
			h.clock = c
		}
	}
}

func NewHub(log *logger.Logger, opts ...Option) *Hub {
	h := &Hub{
		logger:     log.With("component", "RealtimeHub"),
		sessions:   make(map[string]*Session),
		bufferSize: defaultBufferSize,
		heartbeat:  defaultHeartbeat,
		clock:      clock.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register creates a session with an empty subscription set. An empty id is
// replaced with a fresh UUID. Re-registering a live id closes the old session.
func (h *Hub) Register(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}
	s := newSession(id, h.bufferSize, h.logger)

	h.mu.Lock()
	if existing, ok := h.sessions[id]; ok {
		existing.close()
	}
	h.sessions[id] = s
	count := len(h.sessions)
	h.mu.Unlock()

	h.logger.Debug("Realtime session registered", "connection_id", id, "sessions", count)
	return s
}

// Subscribe unions tables into the session's subscription set and returns
// the resulting set in sorted order.
func (h *Hub) Subscribe(id string, tables []Table) ([]Table, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	for _, t := range tables {
		if t != "" {
			s.tables[t] = struct{}{}
		}
	}
	out := sortedTables(s.tables)
	h.logger.Debug("Realtime session subscribed", "connection_id", id, "tables", out)
	return out, nil
}

// Tables returns the current subscription set of a session.
func (h *Hub) Tables(id string) ([]Table, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sortedTables(s.tables), nil
}

// Unregister removes the session with the given id and closes it.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	if ok {
		s.close()
		h.logger.Debug("Realtime session unregistered", "connection_id", id)
	}
}

// Close unregisters s only if it is still the registered session for its id,
// so a replaced connection cannot evict its successor.
func (h *Hub) Close(s *Session) {
	if s == nil {
		return
	}
	h.mu.Lock()
	if current, ok := h.sessions[s.ID]; ok && current == s {
		delete(h.sessions, s.ID)
	}
	h.mu.Unlock()
	s.close()
}

// CloseAll unregisters and closes every session.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	h.logger.Info("Realtime sessions closed", "sessions", len(sessions))
}

// Sessions returns a snapshot of every registered session.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]SessionInfo, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, SessionInfo{ID: s.ID, Tables: sortedTables(s.tables)})
	}
	return out
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Notify pushes, to every session, the ordered subset of descriptors whose
// table it subscribes to, as a single update message. Sessions with no
// matching descriptor receive nothing. It returns the number of sessions
// the update was handed to.
func (h *Hub) Notify(descriptors []ChangeDescriptor) int {
	if len(descriptors) == 0 {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, s := range h.sessions {
		matched := lo.Filter(descriptors, func(d ChangeDescriptor, _ int) bool {
			_, ok := s.tables[d.Table]
			return ok
		})
		if len(matched) == 0 {
			continue
		}
		if h.deliver(s, Message{Event: EventUpdate, Data: matched}) {
			delivered++
		}
	}
	return delivered
}

// Broadcast pushes msg to every session regardless of subscriptions.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, s := range h.sessions {
		if h.deliver(s, msg) {
			delivered++
		}
	}
	return delivered
}

// Send pushes msg to a single session.
func (h *Hub) Send(id string, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	h.deliver(s, msg)
	return nil
}

// deliver never blocks: a closed or lagging session loses the message and
// the fan-out continues with the next one.
func (h *Hub) deliver(s *Session, msg Message) bool {
	ok := h.tryDeliver(s, msg)
	if h.observer != nil {
		h.observer.ObserveDelivery(string(msg.Event), ok)
	}
	return ok
}

func (h *Hub) tryDeliver(s *Session, msg Message) bool {
	select {
	case <-s.done:
		h.logger.Warn("Skipping realtime message; session closed", "connection_id", s.ID, "event", msg.Event)
		return false
	default:
	}
	select {
	case s.Outbound <- msg:
		return true
	default:
		h.logger.Warn("Dropping realtime message; outbound buffer full", "connection_id", s.ID, "event", msg.Event)
		return false
	}
}
