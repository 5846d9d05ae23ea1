package session

// Advisory lesson locks. A lock prevents other editors' UIs from opening
// an edit form; it does not gate commits unless the coordinator is
// configured to require one. Layered on top of, not a substitute for,
// version-based conflict detection.

// Lock grants the session an advisory lock on the lesson. It returns
// false and the holding editor when the lock is already held elsewhere.
// Re-locking an already held lesson by the same session succeeds.
func (r *Registry) Lock(s *Session, lessonID string) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder, ok := r.locks[lessonID]; ok {
		if holder == s.ID {
			return true, s.EditorID
		}
		holderEditor := ""
		if hs := r.sessions[holder]; hs != nil {
			holderEditor = hs.EditorID
		}
		return false, holderEditor
	}
	r.locks[lessonID] = s.ID
	if r.held[s.ID] == nil {
		r.held[s.ID] = make(map[string]struct{})
	}
	r.held[s.ID][lessonID] = struct{}{}
	return true, s.EditorID
}

// Unlock releases the session's lock on the lesson. Releasing a lock the
// session does not hold is a no-op returning false.
func (r *Registry) Unlock(s *Session, lessonID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[lessonID] != s.ID {
		return false
	}
	delete(r.locks, lessonID)
	delete(r.held[s.ID], lessonID)
	return true
}

// LockHolder returns the editor currently holding the lesson lock.
func (r *Registry) LockHolder(lessonID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.locks[lessonID]
	if !ok {
		return "", false
	}
	if s := r.sessions[sid]; s != nil {
		return s.EditorID, true
	}
	return "", false
}

// HoldsLock reports whether the session holds the lesson lock.
func (r *Registry) HoldsLock(s *Session, lessonID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locks[lessonID] == s.ID
}
