package solver

import (
	"strings"
	"testing"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/availability"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

func schoolDay() []model.TimeWindow {
	var out []model.TimeWindow
	for d := model.Monday; d <= model.Friday; d++ {
		out = append(out, model.TimeWindow{Day: d, Start: 8 * 60, End: 16 * 60})
	}
	return out
}

func TestQualifiedFilter(t *testing.T) {
	cap10 := 10.0
	teachers := []model.Teacher{
		{ID: "t1", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
		{ID: "t2", SubjectIDs: []string{"physics"}, WorkingHours: schoolDay()},
		{ID: "t3", SubjectIDs: []string{"math"}, WorkingHours: schoolDay(), CurrentLoad: 10, MaxLoad: &cap10},
		{ID: "t4", SubjectIDs: []string{"math"}}, // no working hours
	}
	course := model.Course{ID: "c1", SubjectID: "math", WeeklyHours: 3}
	idx := availability.NewIndex(teachers)

	res := QualifiedFilter{}.Candidates(course, teachers, idx)
	if len(res) != 1 || res[0].ID != "t1" {
		t.Fatalf("unexpected candidates: %+v", res)
	}
}

func TestQualifiedFilter_PreferredSlots(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "mornings", SubjectIDs: []string{"math"}, WorkingHours: []model.TimeWindow{
			{Day: model.Monday, Start: 8 * 60, End: 12 * 60},
		}},
		{ID: "fullday", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
	}
	course := model.Course{
		ID: "c1", SubjectID: "math", WeeklyHours: 2,
		PreferredSlots: []model.TimeSlot{{Day: model.Monday, Start: 13 * 60, End: 14 * 60}},
	}
	idx := availability.NewIndex(teachers)

	res := QualifiedFilter{}.Candidates(course, teachers, idx)
	if len(res) != 1 || res[0].ID != "fullday" {
		t.Fatalf("expected only the full-day teacher, got %+v", res)
	}
}

func TestGreedySolver_NoQualifiedTeacher(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "t1", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
	}
	courses := []model.Course{{ID: "c1", SubjectID: "chemistry", WeeklyHours: 2}}

	res := NewGreedySolver().Assign(courses, teachers)
	if len(res) != 1 {
		t.Fatalf("expected one assignment, got %d", len(res))
	}
	if res[0].Assigned() {
		t.Fatalf("course should be unassigned, got teacher %s", res[0].TeacherID)
	}
	if !strings.Contains(res[0].Reason, "No qualified teacher") {
		t.Errorf("unexpected reason: %q", res[0].Reason)
	}
}

func TestGreedySolver_BalancesLoad(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "t1", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
		{ID: "t2", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
	}
	courses := []model.Course{
		{ID: "c1", SubjectID: "math", WeeklyHours: 1},
		{ID: "c2", SubjectID: "math", WeeklyHours: 1},
		{ID: "c3", SubjectID: "math", WeeklyHours: 1},
	}

	res := NewGreedySolver().Assign(courses, teachers)
	if len(res) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(res))
	}
	// Equal-hour courses alternate between equally loaded teachers.
	if res[0].TeacherID != "t1" || res[1].TeacherID != "t2" || res[2].TeacherID != "t1" {
		t.Errorf("unexpected distribution: %s %s %s", res[0].TeacherID, res[1].TeacherID, res[2].TeacherID)
	}

	loads := Loads(teachers, courses, res)
	if loads["t1"] != 2 || loads["t2"] != 1 {
		t.Errorf("unexpected loads: %+v", loads)
	}
}

func TestGreedySolver_PreAssignedPassthrough(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "t1", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
		{ID: "t2", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
	}
	courses := []model.Course{
		{ID: "c1", SubjectID: "math", TeacherID: "t1", WeeklyHours: 5},
		{ID: "c2", SubjectID: "math", WeeklyHours: 1},
	}

	res := NewGreedySolver().Assign(courses, teachers)
	if res[0].TeacherID != "t1" || !res[0].WasPreAssigned {
		t.Fatalf("pre-assigned course not passed through: %+v", res[0])
	}
	// The pre-assignment counts toward t1's load, so c2 goes to t2.
	if res[1].TeacherID != "t2" {
		t.Errorf("expected c2 on t2, got %s", res[1].TeacherID)
	}
}

func TestGreedySolver_RespectsMaxLoad(t *testing.T) {
	cap4 := 4.0
	teachers := []model.Teacher{
		{ID: "t1", SubjectIDs: []string{"math"}, WorkingHours: schoolDay(), MaxLoad: &cap4},
	}
	courses := []model.Course{
		{ID: "c1", SubjectID: "math", WeeklyHours: 3},
		{ID: "c2", SubjectID: "math", WeeklyHours: 3},
	}

	res := NewGreedySolver().Assign(courses, teachers)
	if res[0].TeacherID != "t1" {
		t.Fatalf("first course should fit under the cap")
	}
	if res[1].Assigned() {
		t.Errorf("second course would push t1 over its cap, got %+v", res[1])
	}
}

func TestGreedySolver_DoesNotMutateInput(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "t1", SubjectIDs: []string{"math"}, WorkingHours: schoolDay()},
	}
	courses := []model.Course{{ID: "c1", SubjectID: "math", WeeklyHours: 3}}

	NewGreedySolver().Assign(courses, teachers)
	if teachers[0].CurrentLoad != 0 || teachers[0].AssignedCourses != 0 {
		t.Errorf("caller's teacher slice was mutated: %+v", teachers[0])
	}
}

func TestValidateAssignment(t *testing.T) {
	cap10 := 10.0
	teacher := model.Teacher{
		ID: "t1", SubjectIDs: []string{"math"},
		WorkingHours: schoolDay(), CurrentLoad: 8, MaxLoad: &cap10,
	}
	course := model.Course{ID: "c1", SubjectID: "math", WeeklyHours: 2}
	a := model.Assignment{CourseID: "c1", TeacherID: "t1"}

	v := ValidateAssignment(a, course, teacher)
	if !v.IsValid {
		t.Fatalf("expected valid assignment, reasons: %v", v.Reasons)
	}
	if len(v.Reasons) != 3 {
		t.Errorf("expected one reason per check, got %v", v.Reasons)
	}

	course.SubjectID = "physics"
	v = ValidateAssignment(a, course, teacher)
	if v.IsValid {
		t.Errorf("subject mismatch should invalidate")
	}

	course.SubjectID = "math"
	course.WeeklyHours = 5
	v = ValidateAssignment(a, course, teacher)
	if v.IsValid {
		t.Errorf("exceeding max load should invalidate")
	}
}

func TestBalanceScore(t *testing.T) {
	if got := BalanceScore(nil); got != 0 {
		t.Errorf("empty loads: got %v", got)
	}
	if got := BalanceScore(map[string]float64{"t1": 5, "t2": 5}); got != 0 {
		t.Errorf("even loads: got %v", got)
	}
	if got := BalanceScore(map[string]float64{"t1": 0, "t2": 10}); got != 5 {
		t.Errorf("expected stddev 5, got %v", got)
	}
}
