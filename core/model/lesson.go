package model

import "time"

// Lesson is the editable unit of a schedule and the granularity of
// optimistic concurrency control. Its Version strictly increases with
// every accepted mutation and is never reused.
type Lesson struct {
	ID         string  `json:"id"`
	ScheduleID string  `json:"schedule_id"`
	CourseID   string  `json:"course_id"`
	Day        Weekday `json:"day"`
	Start      string  `json:"start"` // "HH:MM"
	End        string  `json:"end"`
	Room       string  `json:"room"`
	Version    int64   `json:"version"`
}

// State returns the lesson's editable fields as a field map, the form the
// version store and edit intents operate on.
func (l Lesson) State() map[string]any {
	return map[string]any{
		"course_id": l.CourseID,
		"day":       int(l.Day),
		"start":     l.Start,
		"end":       l.End,
		"room":      l.Room,
	}
}

// EditIntent is a proposed change to one lesson, carrying the version the
// editor believed was current when it started editing.
type EditIntent struct {
	EditorID    string         `json:"editor_id"`
	ScheduleID  string         `json:"schedule_id"`
	LessonID    string         `json:"lesson_id"`
	Changes     map[string]any `json:"changes"`
	BaseVersion int64          `json:"base_version"`
}

// Conflict materializes when an edit intent's base version no longer
// matches the stored version. It holds both competing payloads and lives
// only until resolved.
type Conflict struct {
	ID         string         `json:"id"`
	ScheduleID string         `json:"schedule_id"`
	LessonID   string         `json:"lesson_id"`
	Proposed   EditIntent     `json:"proposed"`
	Current    map[string]any `json:"current"`
	// CurrentVersion is the stored version at detection time.
	CurrentVersion int64 `json:"current_version"`
	// CommitOrder is the store-wide sequence number of the commit attempt
	// that surfaced the conflict. Conflicts on the same lesson resolve in
	// this order, never by resolution arrival.
	CommitOrder int64     `json:"commit_order"`
	CreatedAt   time.Time `json:"created_at"`
}
