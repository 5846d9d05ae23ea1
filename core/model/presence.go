package model

import "time"

// PresenceStatus enumerates the liveness states of an editor.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusAway    PresenceStatus = "away"
	StatusOffline PresenceStatus = "offline"
)

// Presence is the live state of a connected editor: whether they are
// reachable and which schedule they are currently viewing.
type Presence struct {
	EditorID   string         `json:"editor_id"`
	Status     PresenceStatus `json:"status"`
	LastSeen   time.Time      `json:"last_seen"`
	ScheduleID string         `json:"schedule_id,omitempty"` // empty when not viewing a schedule
}
