package availability

import (
	"testing"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

func TestIndex_Covers(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "t1", WorkingHours: []model.TimeWindow{
			{Day: model.Monday, Start: 480, End: 960},
			{Day: model.Tuesday, Start: 480, End: 720},
		}},
	}
	idx := NewIndex(teachers)

	if !idx.Covers("t1", model.TimeSlot{Day: model.Monday, Start: 540, End: 600}) {
		t.Errorf("expected Monday morning slot to be covered")
	}
	if idx.Covers("t1", model.TimeSlot{Day: model.Tuesday, Start: 700, End: 780}) {
		t.Errorf("slot past the Tuesday window end should not be covered")
	}
	if idx.Covers("t2", model.TimeSlot{Day: model.Monday, Start: 540, End: 600}) {
		t.Errorf("unknown teacher covers nothing")
	}
}

func TestIndex_CoversAll(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "t1", WorkingHours: []model.TimeWindow{
			{Day: model.Monday, Start: 480, End: 960},
		}},
	}
	idx := NewIndex(teachers)
	slots := []model.TimeSlot{
		{Day: model.Monday, Start: 540, End: 600},
		{Day: model.Monday, Start: 600, End: 660},
	}
	if !idx.CoversAll("t1", slots) {
		t.Errorf("expected all Monday slots covered")
	}
	slots = append(slots, model.TimeSlot{Day: model.Friday, Start: 540, End: 600})
	if idx.CoversAll("t1", slots) {
		t.Errorf("Friday slot is outside working hours")
	}
}

func TestIndex_OverlapsDefaultDay(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "early", WorkingHours: []model.TimeWindow{{Day: model.Monday, Start: 6 * 60, End: 9 * 60}}},
		{ID: "night", WorkingHours: []model.TimeWindow{{Day: model.Monday, Start: 18 * 60, End: 22 * 60}}},
		{ID: "weekend", WorkingHours: []model.TimeWindow{{Day: model.Saturday, Start: 9 * 60, End: 15 * 60}}},
	}
	idx := NewIndex(teachers)

	if !idx.OverlapsDefaultDay("early") {
		t.Errorf("06:00-09:00 overlaps the 08:00-16:00 instructional day")
	}
	if idx.OverlapsDefaultDay("night") {
		t.Errorf("evening-only hours do not overlap the instructional day")
	}
	if idx.OverlapsDefaultDay("weekend") {
		t.Errorf("weekend-only hours do not overlap the Monday-Friday day")
	}
}

func TestIndex_CustomDay(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "night", WorkingHours: []model.TimeWindow{{Day: model.Monday, Start: 18 * 60, End: 22 * 60}}},
	}
	day := []model.TimeSlot{{Day: model.Monday, Start: 17 * 60, End: 21 * 60}}
	idx := NewIndexWithDay(teachers, day)
	if !idx.OverlapsDefaultDay("night") {
		t.Errorf("custom evening day should overlap evening working hours")
	}
}
