package solver

import (
	"fmt"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/availability"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// ValidateAssignment checks subject qualification, load headroom and
// working-hour compatibility independently. Each satisfied check yields a
// reason string so callers can explain why an assignment holds, not only
// whether it does.
func ValidateAssignment(a model.Assignment, course model.Course, teacher model.Teacher) Validation {
	v := Validation{IsValid: true}

	if teacher.QualifiedFor(course.SubjectID) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s is qualified for subject %s", teacher.ID, course.SubjectID))
	} else {
		v.IsValid = false
		v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s is not qualified for subject %s", teacher.ID, course.SubjectID))
	}

	if teacher.HasHeadroom(course.WeeklyHours) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s has load headroom for %.1f weekly hours", teacher.ID, course.WeeklyHours))
	} else {
		v.IsValid = false
		v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s would exceed max load of %.1f hours", teacher.ID, *teacher.MaxLoad))
	}

	idx := availability.NewIndex([]model.Teacher{teacher})
	if len(course.PreferredSlots) > 0 {
		if idx.CoversAll(teacher.ID, course.PreferredSlots) {
			v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s covers all %d preferred slots", teacher.ID, len(course.PreferredSlots)))
		} else {
			v.IsValid = false
			v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s does not cover the course's preferred slots", teacher.ID))
		}
	} else if idx.OverlapsDefaultDay(teacher.ID) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s overlaps the instructional day", teacher.ID))
	} else {
		v.IsValid = false
		v.Reasons = append(v.Reasons, fmt.Sprintf("teacher %s has no overlap with the instructional day", teacher.ID))
	}

	return v
}
