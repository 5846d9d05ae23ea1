package store

import (
	"sort"
	"sync"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// CourseDirectory gives the coordinator a consistent view of courses and
// teachers for targeted solver re-runs. Reads return snapshots; the
// coordinator writes back through UpdateCourse when a re-assignment is
// accepted.
type CourseDirectory interface {
	Course(courseID string) (model.Course, bool)
	Teachers() []model.Teacher
	UpdateCourse(c model.Course)
	// AdjustLoad shifts a teacher's weekly hours and course count when
	// an accepted re-assignment moves a course between teachers.
	AdjustLoad(teacherID string, hours float64, courses int)
}

// MemoryDirectory is the in-memory CourseDirectory implementation.
type MemoryDirectory struct {
	mu       sync.RWMutex
	courses  map[string]model.Course
	teachers map[string]model.Teacher
}

// NewMemoryDirectory creates a directory seeded with the given courses
// and teachers.
func NewMemoryDirectory(courses []model.Course, teachers []model.Teacher) *MemoryDirectory {
	d := &MemoryDirectory{
		courses:  make(map[string]model.Course, len(courses)),
		teachers: make(map[string]model.Teacher, len(teachers)),
	}
	for _, c := range courses {
		d.courses[c.ID] = c
	}
	for _, t := range teachers {
		d.teachers[t.ID] = t
	}
	return d
}

func (d *MemoryDirectory) Course(courseID string) (model.Course, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.courses[courseID]
	return c, ok
}

// Teachers returns a snapshot sorted by id for deterministic solver
// input.
func (d *MemoryDirectory) Teachers() []model.Teacher {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Teacher, 0, len(d.teachers))
	for _, t := range d.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *MemoryDirectory) UpdateCourse(c model.Course) {
	d.mu.Lock()
	d.courses[c.ID] = c
	d.mu.Unlock()
}

// UpdateTeacher replaces a teacher record, used by the administrative
// layer to push load changes into the engine's view.
func (d *MemoryDirectory) UpdateTeacher(t model.Teacher) {
	d.mu.Lock()
	d.teachers[t.ID] = t
	d.mu.Unlock()
}

func (d *MemoryDirectory) AdjustLoad(teacherID string, hours float64, courses int) {
	d.mu.Lock()
	if t, ok := d.teachers[teacherID]; ok {
		t.CurrentLoad += hours
		t.AssignedCourses += courses
		d.teachers[teacherID] = t
	}
	d.mu.Unlock()
}
