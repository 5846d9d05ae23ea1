package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/protocol"
)

// outboundBuffer sizes each session's send queue. A slow reader misses
// messages rather than stalling broadcast for everyone else.
const outboundBuffer = 64

// Session is one connected editor. Outbound messages are queued on a
// single buffered channel drained by one writer, which preserves the
// order they were enqueued in.
type Session struct {
	ID       string
	EditorID string

	mu     sync.Mutex
	out    chan protocol.Envelope
	closed bool
}

func newSession(editorID string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		EditorID: editorID,
		out:      make(chan protocol.Envelope, outboundBuffer),
	}
}

// Send queues an envelope for delivery. It never blocks: when the buffer
// is full the message is dropped and false is returned.
func (s *Session) Send(env protocol.Envelope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- env:
		return true
	default:
		return false
	}
}

// Outbound returns the channel the transport writer drains.
func (s *Session) Outbound() <-chan protocol.Envelope { return s.out }

func (s *Session) close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.out)
	}
	s.mu.Unlock()
}
