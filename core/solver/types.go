package solver

import (
	"github.com/axelvallin-balder/schedule-builder-sub001/core/availability"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// Solver assigns teachers to courses under qualification, availability
// and load constraints. Implementations never fail for unsatisfiable
// input: courses without a viable teacher are reported, not dropped.
type Solver interface {
	Assign(courses []model.Course, teachers []model.Teacher) []model.Assignment
}

// CandidateFilter selects the teachers eligible for a course.
type CandidateFilter interface {
	Candidates(course model.Course, teachers []model.Teacher, idx *availability.Index) []model.Teacher
}

// Validation is the outcome of checking one assignment, with one
// human-readable reason per satisfied check. It serves audit and
// explanation, not just pass/fail.
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Reasons []string `json:"reasons"`
}
