// Package availability provides a read-only index of per-teacher
// free/busy windows. It is built once per solver pass and safe for
// concurrent lookup.
package availability

import (
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// DefaultDay is the default instructional day used when a course carries
// no preferred slots: any working-hour overlap with it qualifies.
var DefaultDay = []model.TimeSlot{
	{Day: model.Monday, Start: 8 * 60, End: 16 * 60},
	{Day: model.Tuesday, Start: 8 * 60, End: 16 * 60},
	{Day: model.Wednesday, Start: 8 * 60, End: 16 * 60},
	{Day: model.Thursday, Start: 8 * 60, End: 16 * 60},
	{Day: model.Friday, Start: 8 * 60, End: 16 * 60},
}

// Index maps teacher identities to their weekly availability windows.
type Index struct {
	windows map[string][]model.TimeWindow
	defday  []model.TimeSlot
}

// NewIndex builds an index from the given teachers using the default
// instructional day.
func NewIndex(teachers []model.Teacher) *Index {
	return NewIndexWithDay(teachers, DefaultDay)
}

// NewIndexWithDay builds an index with a custom instructional day.
func NewIndexWithDay(teachers []model.Teacher, day []model.TimeSlot) *Index {
	w := make(map[string][]model.TimeWindow, len(teachers))
	for _, t := range teachers {
		w[t.ID] = t.WorkingHours
	}
	return &Index{windows: w, defday: day}
}

// WorkingHours returns the teacher's weekly windows, nil for unknown ids.
func (i *Index) WorkingHours(teacherID string) []model.TimeWindow {
	return i.windows[teacherID]
}

// Covers reports whether some working window of the teacher fully
// contains the slot.
func (i *Index) Covers(teacherID string, slot model.TimeSlot) bool {
	for _, w := range i.windows[teacherID] {
		if w.Contains(slot) {
			return true
		}
	}
	return false
}

// CoversAll reports whether the teacher covers every one of the slots.
func (i *Index) CoversAll(teacherID string, slots []model.TimeSlot) bool {
	for _, s := range slots {
		if !i.Covers(teacherID, s) {
			return false
		}
	}
	return true
}

// OverlapsDefaultDay reports whether the teacher's working hours overlap
// the instructional day at all.
func (i *Index) OverlapsDefaultDay(teacherID string) bool {
	for _, w := range i.windows[teacherID] {
		for _, s := range i.defday {
			if w.Overlaps(s) {
				return true
			}
		}
	}
	return false
}
