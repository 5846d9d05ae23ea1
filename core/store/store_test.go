package store

import (
	"context"
	"testing"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

func TestMemoryLoader_LoadSchedule(t *testing.T) {
	m := NewMemoryLoader(map[string][]model.Lesson{
		"s1": {
			{ID: "l1", ScheduleID: "s1", Version: 1},
			{ID: "l2", ScheduleID: "s1", Version: 4},
		},
	})

	lessons, err := m.LoadSchedule(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(lessons))
	}

	lessons, err = m.LoadSchedule(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("load unknown: %v", err)
	}
	if len(lessons) != 0 {
		t.Errorf("unknown schedule should be empty")
	}
}

func TestMemoryLoader_OnCommit(t *testing.T) {
	m := NewMemoryLoader(nil)
	if err := m.OnCommit("l1", map[string]any{"start": "10:00"}, 3); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := m.PersistedVersion("l1"); got != 3 {
		t.Errorf("persisted version %d, want 3", got)
	}
	if got := m.PersistedVersion("l2"); got != 0 {
		t.Errorf("unseen lesson should report 0, got %d", got)
	}
}

func TestMemoryDirectory_TeachersSortedSnapshot(t *testing.T) {
	d := NewMemoryDirectory(nil, []model.Teacher{
		{ID: "t3"}, {ID: "t1"}, {ID: "t2"},
	})
	ts := d.Teachers()
	if len(ts) != 3 || ts[0].ID != "t1" || ts[1].ID != "t2" || ts[2].ID != "t3" {
		t.Fatalf("teachers not sorted: %+v", ts)
	}
	// Snapshot, not a live view.
	ts[0].CurrentLoad = 99
	if d.Teachers()[0].CurrentLoad == 99 {
		t.Errorf("snapshot leaked internal state")
	}
}

func TestMemoryDirectory_UpdateAndAdjust(t *testing.T) {
	d := NewMemoryDirectory(
		[]model.Course{{ID: "c1", SubjectID: "math", WeeklyHours: 3}},
		[]model.Teacher{{ID: "t1", CurrentLoad: 5, AssignedCourses: 2}},
	)

	c, ok := d.Course("c1")
	if !ok || c.SubjectID != "math" {
		t.Fatalf("course lookup failed: %+v", c)
	}
	if _, ok := d.Course("ghost"); ok {
		t.Errorf("unknown course found")
	}

	c.TeacherID = "t1"
	d.UpdateCourse(c)
	c, _ = d.Course("c1")
	if c.TeacherID != "t1" {
		t.Errorf("course update lost: %+v", c)
	}

	d.AdjustLoad("t1", -3, -1)
	ts := d.Teachers()
	if ts[0].CurrentLoad != 2 || ts[0].AssignedCourses != 1 {
		t.Errorf("load not adjusted: %+v", ts[0])
	}
	// Unknown teachers are ignored.
	d.AdjustLoad("ghost", 10, 1)
	if len(d.Teachers()) != 1 {
		t.Errorf("adjust created a teacher")
	}
}

func TestMemoryDirectory_UpdateTeacher(t *testing.T) {
	d := NewMemoryDirectory(nil, []model.Teacher{{ID: "t1", CurrentLoad: 2}})
	d.UpdateTeacher(model.Teacher{ID: "t1", CurrentLoad: 7})
	if got := d.Teachers()[0].CurrentLoad; got != 7 {
		t.Errorf("teacher update lost, load %v", got)
	}
}
