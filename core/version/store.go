// Package version implements the per-lesson optimistic concurrency
// store: a monotonic version counter and the last committed state for
// every editable lesson. It is a pure in-memory state machine with no
// network awareness.
package version

import (
	"sync"
	"sync/atomic"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// LessonState is one snapshot entry: the committed field map and its
// version.
type LessonState struct {
	State   map[string]any `json:"state"`
	Version int64          `json:"version"`
}

// Store holds the authoritative state and version of each lesson.
// Commits for a single lesson are linearized; commits for different
// lessons are independent.
type Store interface {
	Get(lessonID string) (state map[string]any, version int64, ok bool)
	// CommitIfCurrent atomically compares baseVersion to the stored
	// version. On match it stores newState and increments the version;
	// on mismatch nothing is mutated, ok is false and version carries
	// the current stored version. Every attempt, accepted or not, is
	// assigned a store-wide sequence number: conflicts later resolve in
	// this order.
	CommitIfCurrent(lessonID string, baseVersion int64, newState map[string]any) (ok bool, version int64, seq int64)
	Snapshot(scheduleID string) map[string]LessonState
	Load(lessons []model.Lesson)
}

type entry struct {
	mu         sync.Mutex
	scheduleID string
	state      map[string]any
	version    int64
}

// MemoryStore is the in-memory Store implementation. The outer RWMutex
// guards the lesson map only; each entry carries its own mutex so
// commits to unrelated lessons never serialize.
type MemoryStore struct {
	mu      sync.RWMutex
	lessons map[string]*entry
	seq     atomic.Int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lessons: make(map[string]*entry)}
}

// Load seeds the store from lessons handed over by the persistence
// boundary. Existing entries for the same lesson are replaced.
func (s *MemoryStore) Load(lessons []model.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lessons {
		s.lessons[l.ID] = &entry{
			scheduleID: l.ScheduleID,
			state:      l.State(),
			version:    l.Version,
		}
	}
}

// Get returns a copy of the committed state and its version.
func (s *MemoryStore) Get(lessonID string) (map[string]any, int64, bool) {
	s.mu.RLock()
	e := s.lessons[lessonID]
	s.mu.RUnlock()
	if e == nil {
		return nil, 0, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyState(e.state), e.version, true
}

// CommitIfCurrent implements the atomic compare-and-set described on the
// Store interface. Retrying with the same stale baseVersion always fails
// again: versions only move forward.
func (s *MemoryStore) CommitIfCurrent(lessonID string, baseVersion int64, newState map[string]any) (bool, int64, int64) {
	s.mu.RLock()
	e := s.lessons[lessonID]
	s.mu.RUnlock()
	if e == nil {
		return false, 0, 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version != baseVersion {
		return false, e.version, s.seq.Add(1)
	}
	e.state = copyState(newState)
	e.version++
	return true, e.version, s.seq.Add(1)
}

// Snapshot returns the committed state of every lesson in the schedule,
// keyed by lesson id. Used for full-state resync of a joining editor.
func (s *MemoryStore) Snapshot(scheduleID string) map[string]LessonState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]LessonState)
	for id, e := range s.lessons {
		if e.scheduleID != scheduleID {
			continue
		}
		e.mu.Lock()
		out[id] = LessonState{State: copyState(e.state), Version: e.version}
		e.mu.Unlock()
	}
	return out
}

func copyState(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
