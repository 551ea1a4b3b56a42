package multiplayer

import "sync"

// DefaultEventBuffer is the per-session event queue length.
const DefaultEventBuffer = 64

// SessionHandle is how the coordinator and matches reach a session without
// depending on Wish or Bubble Tea.
type SessionHandle interface {
	ID() SessionID

	// Send queues an event. It must never block the caller.
	Send(evt SessionEvent)

	// Done closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel that the
// TUI drains. When the buffer is full the oldest event is dropped, so a slow
// client skips stale snapshots instead of stalling the match loop.
type ChannelSession struct {
	id     SessionID
	events chan SessionEvent
	done   chan struct{}
	once   sync.Once
}

// NewChannelSession creates a session handle. Buffers below one use
// DefaultEventBuffer.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = DefaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues evt, evicting the oldest queued event if needed.
// Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	for range 2 {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events is the receive side read by the TUI.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns a channel closed by Close.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session finished. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds or replaces a session.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks a session up by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
