// Package protocol defines the message envelope exchanged with editors
// and the closed set of message kinds the engine understands. Payloads
// are typed structs; decoding happens in exactly one place so an unknown
// kind is always reported, never silently dropped.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType enumerates every message kind on the wire.
type MessageType string

// Inbound message kinds.
const (
	TypeAuthenticate       MessageType = "authenticate"
	TypeScheduleUpdate     MessageType = "schedule_update"
	TypeJoinSchedule       MessageType = "join_schedule"
	TypeLeaveSchedule      MessageType = "leave_schedule"
	TypeLockLesson         MessageType = "lock_lesson"
	TypeUnlockLesson       MessageType = "unlock_lesson"
	TypeConflictResolution MessageType = "conflict_resolution"
	TypeRequestSnapshot    MessageType = "request_snapshot"
	TypeHeartbeat          MessageType = "heartbeat"
)

// Outbound message kinds.
const (
	TypeAuthenticated     MessageType = "authenticated"
	TypeUpdateConfirmed   MessageType = "update_confirmed"
	TypeScheduleSnapshot  MessageType = "schedule_snapshot"
	TypeConflictDetected  MessageType = "conflict_detected"
	TypeConflictResolved  MessageType = "conflict_resolved"
	TypeUserPresence      MessageType = "user_presence"
	TypeUserJoined        MessageType = "user_joined_schedule"
	TypeUserLeft          MessageType = "user_left_schedule"
	TypeLockAcquired      MessageType = "lock_acquired"
	TypeLockDenied        MessageType = "lock_denied"
	TypeLockReleased      MessageType = "lock_released"
	TypeHeartbeatAck      MessageType = "heartbeat_ack"
	TypeError             MessageType = "error"
)

// Envelope is the wire frame: a kind tag and a kind-specific payload.
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals the payload into an envelope. Marshalling of the
// engine's own payload structs cannot fail; an error here is a bug.
func NewEnvelope(t MessageType, data any) Envelope {
	if data == nil {
		return Envelope{Type: t}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		panic(fmt.Sprintf("protocol: marshal %s payload: %v", t, err))
	}
	return Envelope{Type: t, Data: raw}
}

// Authenticate binds the connection to an opaque user identity handed in
// by the external authentication collaborator.
type Authenticate struct {
	UserID string `json:"user_id"`
}

// ScheduleUpdate proposes a change to one lesson.
type ScheduleUpdate struct {
	ScheduleID  string         `json:"schedule_id"`
	LessonID    string         `json:"lesson_id"`
	Changes     map[string]any `json:"changes"`
	BaseVersion int64          `json:"base_version"`
}

// JoinSchedule announces which schedule the editor is viewing.
type JoinSchedule struct {
	ScheduleID string `json:"schedule_id"`
}

// LeaveSchedule clears the editor's viewed schedule.
type LeaveSchedule struct {
	ScheduleID string `json:"schedule_id"`
}

// LockLesson requests an advisory editing lock.
type LockLesson struct {
	LessonID string `json:"lesson_id"`
}

// UnlockLesson releases an advisory editing lock.
type UnlockLesson struct {
	LessonID string `json:"lesson_id"`
}

// ConflictResolution resolves an open conflict with a named strategy.
// FieldChoices is consulted only by the merge strategy: it maps field
// names to "incoming" or "current"; unlisted fields keep current.
type ConflictResolution struct {
	ConflictID   string            `json:"conflict_id"`
	Resolution   string            `json:"resolution"`
	FieldChoices map[string]string `json:"field_choices,omitempty"`
}

// RequestSnapshot asks for a full-state resync of a schedule.
type RequestSnapshot struct {
	ScheduleID string `json:"schedule_id"`
}

// UpdateConfirmed acknowledges an accepted commit to its originator.
type UpdateConfirmed struct {
	LessonID string `json:"lesson_id"`
	Version  int64  `json:"version"`
}

// ScheduleUpdateBroadcast carries an accepted commit to other viewers.
type ScheduleUpdateBroadcast struct {
	ScheduleID string         `json:"schedule_id"`
	LessonID   string         `json:"lesson_id"`
	State      map[string]any `json:"state"`
	Version    int64          `json:"version"`
	EditorID   string         `json:"editor_id"`
}

// ScheduleSnapshot is the full committed state of a schedule.
type ScheduleSnapshot struct {
	ScheduleID string                    `json:"schedule_id"`
	Lessons    map[string]LessonSnapshot `json:"lessons"`
}

// LessonSnapshot is one lesson's committed state and version.
type LessonSnapshot struct {
	State   map[string]any `json:"state"`
	Version int64          `json:"version"`
}

// ConflictDetected notifies the editor whose commit was rejected.
type ConflictDetected struct {
	ConflictID   string         `json:"conflict_id"`
	LessonID     string         `json:"lesson_id"`
	YourChanges  map[string]any `json:"your_changes"`
	YourVersion  int64          `json:"your_version"`  // the stale base version the editor used
	TheirState   map[string]any `json:"their_state"`   // the committed state that won
	TheirVersion int64          `json:"their_version"` // the version currently stored
}

// ConflictResolved announces the outcome of a resolution.
type ConflictResolved struct {
	ConflictID string `json:"conflict_id"`
	ResolvedBy string `json:"resolved_by"`
	LessonID   string `json:"lesson_id"`
	Version    int64  `json:"version"`
}

// UserPresence announces an editor's liveness change.
type UserPresence struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// UserJoined announces an editor starting to view a schedule.
type UserJoined struct {
	UserID     string `json:"user_id"`
	ScheduleID string `json:"schedule_id"`
}

// UserLeft announces an editor leaving a schedule.
type UserLeft struct {
	UserID     string `json:"user_id"`
	ScheduleID string `json:"schedule_id"`
}

// LockAcquired confirms an advisory lock grant.
type LockAcquired struct {
	LessonID string `json:"lesson_id"`
	UserID   string `json:"user_id"`
}

// LockDenied reports a lock already held by another editor.
type LockDenied struct {
	LessonID string `json:"lesson_id"`
	HeldBy   string `json:"held_by"`
}

// LockReleased announces a lock release to the schedule's viewers.
type LockReleased struct {
	LessonID string `json:"lesson_id"`
	UserID   string `json:"user_id"`
}

// Error reports a locally recovered failure to the originating session.
type Error struct {
	Message string `json:"message"`
}
