package realtime

import (
	"sync"

	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

// Session is one connected real-time client. Its subscription set is owned
// by the Hub and only touched under the Hub's lock.
type Session struct {
	ID       string
	Outbound chan Message
	Logger   *logger.Logger

	tables    map[Table]struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id string, buffer int, log *logger.Logger) *Session {
	return &Session{
		ID:       id,
		Outbound: make(chan Message, buffer),
		Logger:   log.With("connection_id", id),
		tables:   make(map[Table]struct{}),
		done:     make(chan struct{}),
	}
}

// Done is closed once the session has been unregistered.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// SessionInfo is a read-only copy of a session's registry state.
type SessionInfo struct {
	ID     string  `json:"connectionId"`
	Tables []Table `json:"tables"`
}
