package coordinator

import (
	"sort"
	"sync"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// conflictRegistry holds the open conflicts. A conflict exists only
// until resolved; resolution deletes it. Per-lesson ordering follows the
// version store's attempt sequence, never resolution arrival.
type conflictRegistry struct {
	mu       sync.Mutex
	byID     map[string]model.Conflict
	byLesson map[string][]string // lesson id -> conflict ids, ascending CommitOrder
}

func newConflictRegistry() *conflictRegistry {
	return &conflictRegistry{
		byID:     make(map[string]model.Conflict),
		byLesson: make(map[string][]string),
	}
}

func (r *conflictRegistry) add(c model.Conflict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	ids := append(r.byLesson[c.LessonID], c.ID)
	sort.Slice(ids, func(i, j int) bool {
		return r.byID[ids[i]].CommitOrder < r.byID[ids[j]].CommitOrder
	})
	r.byLesson[c.LessonID] = ids
}

// take removes and returns the conflict if it is the oldest open
// conflict for its lesson.
func (r *conflictRegistry) take(conflictID string) (model.Conflict, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[conflictID]
	if !ok {
		return model.Conflict{}, ErrConflictNotFound
	}
	ids := r.byLesson[c.LessonID]
	if len(ids) > 0 && ids[0] != conflictID {
		return model.Conflict{}, ErrConflictOutOfOrder
	}
	r.removeLocked(c)
	return c, nil
}

// get returns the conflict without removing it.
func (r *conflictRegistry) get(conflictID string) (model.Conflict, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[conflictID]
	return c, ok
}

func (r *conflictRegistry) removeLocked(c model.Conflict) {
	delete(r.byID, c.ID)
	ids := r.byLesson[c.LessonID]
	for i, id := range ids {
		if id == c.ID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.byLesson, c.LessonID)
	} else {
		r.byLesson[c.LessonID] = ids
	}
}

func (r *conflictRegistry) openCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
