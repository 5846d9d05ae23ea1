package model

// Teacher represents a member of staff that can be assigned to courses.
// Teachers are created and updated by the administrative CRUD layer and
// are read-only to the engine.
type Teacher struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	SubjectIDs   []string     `json:"subject_ids"`   // subjects the teacher is qualified to teach
	WorkingHours []TimeWindow `json:"working_hours"` // weekly availability windows
	CurrentLoad  float64      `json:"current_load"`  // assigned teaching hours per week
	MaxLoad      *float64     `json:"max_load"`      // optional hard cap, nil means uncapped

	// AssignedCourses counts courses already carrying this teacher. Used
	// as a tie-breaker when loads are equal.
	AssignedCourses int `json:"assigned_courses"`
}

// QualifiedFor reports whether the teacher may teach the given subject.
func (t Teacher) QualifiedFor(subjectID string) bool {
	for _, s := range t.SubjectIDs {
		if s == subjectID {
			return true
		}
	}
	return false
}

// HasHeadroom reports whether adding the given weekly hours keeps the
// teacher under their load cap. Uncapped teachers always have headroom.
func (t Teacher) HasHeadroom(hours float64) bool {
	if t.MaxLoad == nil {
		return true
	}
	return t.CurrentLoad+hours <= *t.MaxLoad
}

// AtCapacity reports whether the teacher has reached their load cap.
func (t Teacher) AtCapacity() bool {
	return t.MaxLoad != nil && t.CurrentLoad >= *t.MaxLoad
}
