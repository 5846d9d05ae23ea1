package solver

import (
	"github.com/axelvallin-balder/schedule-builder-sub001/core/availability"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// QualifiedFilter keeps teachers that are qualified for the course's
// subject, available for its preferred slots, and under their load cap.
type QualifiedFilter struct{}

func (QualifiedFilter) Candidates(course model.Course, teachers []model.Teacher, idx *availability.Index) []model.Teacher {
	var out []model.Teacher
	for _, t := range teachers {
		if !t.QualifiedFor(course.SubjectID) {
			continue
		}
		if t.AtCapacity() || !t.HasHeadroom(course.WeeklyHours) {
			continue
		}
		if len(course.PreferredSlots) > 0 {
			if !idx.CoversAll(t.ID, course.PreferredSlots) {
				continue
			}
		} else if !idx.OverlapsDefaultDay(t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}
