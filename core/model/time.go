package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday indexes a school day, Monday = 0.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// TimeWindow is a recurring weekly window during which a teacher is
// available, expressed in minutes from midnight.
type TimeWindow struct {
	Day   Weekday `json:"day"`
	Start int     `json:"start"` // minutes from midnight
	End   int     `json:"end"`
}

// TimeSlot is a concrete weekly slot a lesson occupies. It shares the
// TimeWindow representation but names the intent: windows describe
// availability, slots describe demand.
type TimeSlot struct {
	Day   Weekday `json:"day"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Contains reports whether the window fully covers the slot.
func (w TimeWindow) Contains(s TimeSlot) bool {
	return w.Day == s.Day && w.Start <= s.Start && s.End <= w.End
}

// Overlaps reports whether the window and the slot share any time.
func (w TimeWindow) Overlaps(s TimeSlot) bool {
	return w.Day == s.Day && w.Start < s.End && s.Start < w.End
}

// Duration returns the window length in minutes.
func (w TimeWindow) Duration() int { return w.End - w.Start }

// Validate checks that the window is well formed.
func (w TimeWindow) Validate() error {
	if w.Day < Monday || w.Day > Sunday {
		return fmt.Errorf("invalid day %d", w.Day)
	}
	if w.Start < 0 || w.End > 24*60 || w.Start >= w.End {
		return fmt.Errorf("invalid window %d-%d", w.Start, w.End)
	}
	return nil
}

// ParseClock converts an "HH:MM" string to minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes from midnight back to "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
