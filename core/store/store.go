// Package store defines the persistence boundary of the engine. The
// engine holds the authoritative in-memory state; durable storage is an
// external collaborator reached through these interfaces.
package store

import (
	"context"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// ScheduleLoader hands the engine the lessons of a schedule on first
// access.
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context, scheduleID string) ([]model.Lesson, error)
}

// CommitSink receives every accepted lesson mutation so an external
// collaborator can persist it. The engine does not wait for durability.
type CommitSink interface {
	OnCommit(lessonID string, state map[string]any, version int64) error
}

// NopSink discards commits. Used when no durable collaborator is
// configured.
type NopSink struct{}

func (NopSink) OnCommit(string, map[string]any, int64) error { return nil }
