package metrics

import "time"

// CommitEvent represents one accepted lesson mutation.
type CommitEvent struct {
	ScheduleID string
	LessonID   string
	EditorID   string
	Version    int64
	Reassigned bool
	Time       time.Time
}

// EngineSink records accepted commits for observability purposes.
type EngineSink interface {
	RecordCommit(ev CommitEvent) error
}

// ConflictEvent captures a detected or resolved edit conflict.
type ConflictEvent struct {
	ConflictID string
	ScheduleID string
	LessonID   string
	EditorID   string
	Resolved   bool
	Strategy   string
	Time       time.Time
}

// ConflictRecorder records conflict lifecycle events.
type ConflictRecorder interface {
	RecordConflict(ev ConflictEvent) error
}

// SolverEvent summarizes one assignment solver pass.
type SolverEvent struct {
	Courses      int
	Assigned     int
	Unassigned   int
	BalanceScore float64
	Duration     time.Duration
	Time         time.Time
}

// SolverRecorder records solver pass summaries.
type SolverRecorder interface {
	RecordSolverPass(ev SolverEvent) error
}

// SessionEvent is a snapshot of the connected editor population.
type SessionEvent struct {
	Sessions int
	Time     time.Time
}

// SessionRecorder records session population changes.
type SessionRecorder interface {
	RecordSessions(ev SessionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordCommit(CommitEvent) error { return nil }
func (NopSink) RecordConflict(ConflictEvent) error { return nil }
func (NopSink) RecordSolverPass(SolverEvent) error { return nil }
func (NopSink) RecordSessions(SessionEvent) error { return nil }
