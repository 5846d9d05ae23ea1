// Package session tracks connected editors: their presence, which
// schedule each is viewing, and the advisory lesson locks they hold.
// The registry is one of the two pieces of shared mutable state in the
// engine (the other is the version store).
package session

import (
	"sync"
	"time"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/logger"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/protocol"
)

// Registry owns all live sessions. All methods are safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session            // session id -> session
	byEditor map[string]*Session            // editor id -> session
	presence map[string]model.Presence      // editor id -> presence
	locks    map[string]string              // lesson id -> session id
	held     map[string]map[string]struct{} // session id -> lesson ids

	log  logger.Logger
	sink metrics.SessionRecorder
	now  func() time.Time
}

// NewRegistry creates an empty registry. A nil sink disables session
// metrics.
func NewRegistry(log logger.Logger, sink metrics.SessionRecorder) *Registry {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		byEditor: make(map[string]*Session),
		presence: make(map[string]model.Presence),
		locks:    make(map[string]string),
		held:     make(map[string]map[string]struct{}),
		log:      log,
		sink:     sink,
		now:      time.Now,
	}
}

// Join registers a session for the editor and marks them online. A
// previous session for the same editor is closed first: one editor, one
// live session.
func (r *Registry) Join(editorID string) *Session {
	r.mu.Lock()
	if prev := r.byEditor[editorID]; prev != nil {
		r.dropLocked(prev)
	}
	s := newSession(editorID)
	r.sessions[s.ID] = s
	r.byEditor[editorID] = s
	r.presence[editorID] = model.Presence{
		EditorID: editorID,
		Status:   model.StatusOnline,
		LastSeen: r.now(),
	}
	n := len(r.sessions)
	r.mu.Unlock()

	r.log.Infof("editor %s joined (session %s)", editorID, s.ID)
	if err := r.sink.RecordSessions(metrics.SessionEvent{Sessions: n, Time: time.Now()}); err != nil {
		r.log.Errorf("session metrics: %v", err)
	}
	return s
}

// Leave removes the session, flips the editor's presence to offline, and
// releases any advisory locks it held. Presence and lock events are
// broadcast to the remaining sessions exactly once per transition.
func (r *Registry) Leave(s *Session) {
	r.mu.Lock()
	_, known := r.sessions[s.ID]
	if !known {
		r.mu.Unlock()
		return
	}
	released, scheduleID := r.releaseLocksLocked(s)
	r.dropLocked(s)
	p := r.presence[s.EditorID]
	p.Status = model.StatusOffline
	p.ScheduleID = ""
	r.presence[s.EditorID] = p
	n := len(r.sessions)
	r.mu.Unlock()

	r.log.Infof("editor %s left (session %s)", s.EditorID, s.ID)
	for _, lessonID := range released {
		r.BroadcastToSchedule(scheduleID, protocol.NewEnvelope(protocol.TypeLockReleased,
			protocol.LockReleased{LessonID: lessonID, UserID: s.EditorID}), s.ID)
	}
	r.BroadcastAll(protocol.NewEnvelope(protocol.TypeUserPresence,
		protocol.UserPresence{UserID: s.EditorID, Status: string(model.StatusOffline)}), s.ID)
	if err := r.sink.RecordSessions(metrics.SessionEvent{Sessions: n, Time: time.Now()}); err != nil {
		r.log.Errorf("session metrics: %v", err)
	}
}

// dropLocked removes the session from the maps and closes its channel.
// Caller holds r.mu.
func (r *Registry) dropLocked(s *Session) {
	delete(r.sessions, s.ID)
	if r.byEditor[s.EditorID] == s {
		delete(r.byEditor, s.EditorID)
	}
	for lessonID := range r.held[s.ID] {
		delete(r.locks, lessonID)
	}
	delete(r.held, s.ID)
	s.close()
}

// releaseLocksLocked clears the session's locks and returns them together
// with the schedule the editor was viewing. Caller holds r.mu.
func (r *Registry) releaseLocksLocked(s *Session) ([]string, string) {
	var released []string
	for lessonID := range r.held[s.ID] {
		delete(r.locks, lessonID)
		released = append(released, lessonID)
	}
	delete(r.held, s.ID)
	return released, r.presence[s.EditorID].ScheduleID
}

// SetPresence records which schedule the editor is viewing. An empty
// scheduleID means the editor is not viewing any schedule.
func (r *Registry) SetPresence(editorID, scheduleID string) {
	r.mu.Lock()
	p, ok := r.presence[editorID]
	if !ok {
		r.mu.Unlock()
		return
	}
	p.ScheduleID = scheduleID
	p.LastSeen = r.now()
	r.presence[editorID] = p
	r.mu.Unlock()
}

// Touch refreshes the editor's heartbeat and revives away sessions.
func (r *Registry) Touch(editorID string) {
	r.mu.Lock()
	p, ok := r.presence[editorID]
	if ok {
		p.LastSeen = r.now()
		if p.Status == model.StatusAway {
			p.Status = model.StatusOnline
		}
		r.presence[editorID] = p
	}
	r.mu.Unlock()
}

// Presence returns the editor's current presence record.
func (r *Registry) Presence(editorID string) (model.Presence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presence[editorID]
	return p, ok
}

// Get returns the live session for an editor.
func (r *Registry) Get(editorID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byEditor[editorID]
	return s, ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// BroadcastToSchedule delivers the envelope to every session whose
// presence marks it as viewing the schedule, except the excluded session
// id. Per-session delivery order follows enqueue order.
func (r *Registry) BroadcastToSchedule(scheduleID string, env protocol.Envelope, excluding string) {
	if scheduleID == "" {
		return
	}
	for _, s := range r.viewers(scheduleID, excluding) {
		if !s.Send(env) {
			r.log.Warnf("dropped %s for editor %s: send buffer full", env.Type, s.EditorID)
		}
	}
}

// BroadcastAll delivers the envelope to every live session except the
// excluded session id.
func (r *Registry) BroadcastAll(env protocol.Envelope, excluding string) {
	r.mu.RLock()
	targets := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.ID != excluding {
			targets = append(targets, s)
		}
	}
	r.mu.RUnlock()
	for _, s := range targets {
		if !s.Send(env) {
			r.log.Warnf("dropped %s for editor %s: send buffer full", env.Type, s.EditorID)
		}
	}
}

func (r *Registry) viewers(scheduleID, excluding string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Session
	for editorID, p := range r.presence {
		if p.ScheduleID != scheduleID {
			continue
		}
		s := r.byEditor[editorID]
		if s == nil || s.ID == excluding {
			continue
		}
		out = append(out, s)
	}
	return out
}
