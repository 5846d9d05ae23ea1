package store

import (
	"context"
	"sync"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// MemoryLoader serves schedules from an in-memory fixture. It also
// implements CommitSink so tests can observe what would be persisted.
type MemoryLoader struct {
	mu        sync.RWMutex
	schedules map[string][]model.Lesson
	commits   map[string]int64 // lesson id -> last persisted version
}

// NewMemoryLoader creates a loader seeded with the given schedules.
func NewMemoryLoader(schedules map[string][]model.Lesson) *MemoryLoader {
	if schedules == nil {
		schedules = make(map[string][]model.Lesson)
	}
	return &MemoryLoader{schedules: schedules, commits: make(map[string]int64)}
}

func (m *MemoryLoader) LoadSchedule(_ context.Context, scheduleID string) ([]model.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lessons := m.schedules[scheduleID]
	out := make([]model.Lesson, len(lessons))
	copy(out, lessons)
	return out, nil
}

func (m *MemoryLoader) OnCommit(lessonID string, _ map[string]any, version int64) error {
	m.mu.Lock()
	m.commits[lessonID] = version
	m.mu.Unlock()
	return nil
}

// PersistedVersion returns the last version handed to OnCommit for the
// lesson, zero if none.
func (m *MemoryLoader) PersistedVersion(lessonID string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commits[lessonID]
}
