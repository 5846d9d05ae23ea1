// Package solver implements the greedy teacher-to-course assignment
// pass. The pass is deterministic: ties between equally loaded teachers
// break on course count, then on identity.
package solver

import (
	"fmt"
	"sort"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/availability"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// GreedySolver assigns one course at a time, updating teacher load
// between courses so that later courses see the updated totals. Greedy,
// not globally optimal: ties distribute round-robin rather than
// guaranteeing a perfectly balanced partition.
type GreedySolver struct {
	Filter CandidateFilter
	// Day overrides the default instructional day when non-nil.
	Day []model.TimeSlot
}

// NewGreedySolver creates a solver with the default candidate filter.
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{Filter: QualifiedFilter{}}
}

// Assign produces one assignment per course. Pre-assigned courses pass
// through unchanged; unassigned courses receive the least-loaded
// qualified teacher or a reason explaining why none was found.
func (s *GreedySolver) Assign(courses []model.Course, teachers []model.Teacher) []model.Assignment {
	filter := s.Filter
	if filter == nil {
		filter = QualifiedFilter{}
	}
	day := s.Day
	if day == nil {
		day = availability.DefaultDay
	}

	// Work on copies so the caller's teacher slice keeps its snapshot.
	working := make([]model.Teacher, len(teachers))
	copy(working, teachers)
	byID := make(map[string]int, len(working))
	for i, t := range working {
		byID[t.ID] = i
	}
	idx := availability.NewIndexWithDay(working, day)

	assignments := make([]model.Assignment, 0, len(courses))
	for _, c := range courses {
		if c.PreAssigned() {
			assignments = append(assignments, model.Assignment{
				CourseID:       c.ID,
				TeacherID:      c.TeacherID,
				WasPreAssigned: true,
			})
			if i, ok := byID[c.TeacherID]; ok {
				working[i].CurrentLoad += c.WeeklyHours
				working[i].AssignedCourses++
			}
			continue
		}

		candidates := filter.Candidates(c, working, idx)
		if len(candidates) == 0 {
			assignments = append(assignments, model.Assignment{
				CourseID: c.ID,
				Reason:   fmt.Sprintf("No qualified teacher available for subject %s", c.SubjectID),
			})
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.CurrentLoad != b.CurrentLoad {
				return a.CurrentLoad < b.CurrentLoad
			}
			if a.AssignedCourses != b.AssignedCourses {
				return a.AssignedCourses < b.AssignedCourses
			}
			return a.ID < b.ID
		})
		chosen := candidates[0]
		assignments = append(assignments, model.Assignment{
			CourseID:  c.ID,
			TeacherID: chosen.ID,
		})
		i := byID[chosen.ID]
		working[i].CurrentLoad += c.WeeklyHours
		working[i].AssignedCourses++
	}
	return assignments
}

// Loads returns the per-teacher load totals after applying the given
// assignments to the teachers' initial loads. Used for balance reporting.
func Loads(teachers []model.Teacher, courses []model.Course, assignments []model.Assignment) map[string]float64 {
	hours := make(map[string]float64, len(courses))
	for _, c := range courses {
		hours[c.ID] = c.WeeklyHours
	}
	loads := make(map[string]float64, len(teachers))
	for _, t := range teachers {
		loads[t.ID] = t.CurrentLoad
	}
	for _, a := range assignments {
		if a.TeacherID == "" {
			continue
		}
		loads[a.TeacherID] += hours[a.CourseID]
	}
	return loads
}
