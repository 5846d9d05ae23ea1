package model

// Course represents a subject taught to one or more groups. A course with
// a non-empty TeacherID is pre-assigned and must not be overridden by the
// solver.
type Course struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	SubjectID      string     `json:"subject_id"`
	TeacherID      string     `json:"teacher_id"` // empty means unassigned
	GroupIDs       []string   `json:"group_ids"`
	WeeklyHours    float64    `json:"weekly_hours"`
	LessonsPerWeek int        `json:"lessons_per_week"`
	PreferredSlots []TimeSlot `json:"preferred_slots,omitempty"`
}

// PreAssigned reports whether the course already carries a teacher.
func (c Course) PreAssigned() bool { return c.TeacherID != "" }

// Assignment is the derived course-to-teacher relationship produced by a
// solver pass. It is recomputed on demand, never persisted on its own.
type Assignment struct {
	CourseID       string `json:"course_id"`
	TeacherID      string `json:"teacher_id"` // empty means no teacher found
	WasPreAssigned bool   `json:"was_pre_assigned"`
	// Reason explains an empty TeacherID in human-readable form.
	Reason string `json:"reason,omitempty"`
}

// Assigned reports whether a teacher was found for the course.
func (a Assignment) Assigned() bool { return a.TeacherID != "" }
