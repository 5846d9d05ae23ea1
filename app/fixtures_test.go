package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	data := `teachers:
  - id: "t1"
    name: "Ada"
    subject_ids: ["math"]
    working_hours:
      - day: 0
        start: 480
        end: 960
courses:
  - id: "c1"
    subject_id: "math"
    weekly_hours: 3
lessons:
  - id: "l1"
    schedule_id: "s1"
    course_id: "c1"
    day: 0
    start: "09:00"
    end: "10:00"
    version: 1
  - id: "l2"
    schedule_id: "s1"
    course_id: "c1"
    day: 1
    start: "10:00"
    end: "11:00"
    version: 1
  - id: "l3"
    schedule_id: "s2"
    course_id: "c1"
    day: 2
    start: "09:00"
    end: "10:00"
    version: 1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixtures: %v", err)
	}

	fx, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(fx.Teachers) != 1 || fx.Teachers[0].ID != "t1" {
		t.Errorf("unexpected teachers: %+v", fx.Teachers)
	}
	if len(fx.Courses) != 1 || fx.Courses[0].WeeklyHours != 3 {
		t.Errorf("unexpected courses: %+v", fx.Courses)
	}
	if len(fx.Schedules["s1"]) != 2 || len(fx.Schedules["s2"]) != 1 {
		t.Errorf("lessons not grouped by schedule: %+v", fx.Schedules)
	}
}

func TestLoadFixtures_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.csv")
	if err := os.WriteFile(path, []byte(``), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFixtures(path); err == nil {
		t.Fatalf("unsupported format accepted")
	}
}
