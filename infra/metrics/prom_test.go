package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
)

func TestPromSink_RecordCommit(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	if err := sink.RecordCommit(coremetrics.CommitEvent{
		ScheduleID: "s1", LessonID: "l1", EditorID: "alice",
		Version: 2, Reassigned: true, Time: time.Now(),
	}); err != nil {
		t.Fatalf("record commit: %v", err)
	}

	expected := `
# HELP engine_commits_total Total number of accepted lesson commits
# TYPE engine_commits_total counter
engine_commits_total{reassigned="true",schedule_id="s1"} 1
`
	if err := testutil.CollectAndCompare(sink.commits, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSink_RecordConflictAndSolver(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	if err := sink.RecordConflict(coremetrics.ConflictEvent{
		ConflictID: "cf1", ScheduleID: "s1", LessonID: "l1", Resolved: false,
	}); err != nil {
		t.Fatalf("record conflict: %v", err)
	}
	if c := testutil.CollectAndCount(sink.conflicts); c == 0 {
		t.Errorf("conflict not recorded")
	}

	if err := sink.RecordSolverPass(coremetrics.SolverEvent{
		Courses: 3, Assigned: 2, Unassigned: 1,
		BalanceScore: 1.5, Duration: 20 * time.Millisecond,
	}); err != nil {
		t.Fatalf("record solver pass: %v", err)
	}
	if got := testutil.ToFloat64(sink.balance); got != 1.5 {
		t.Errorf("balance gauge %v, want 1.5", got)
	}

	if err := sink.RecordSessions(coremetrics.SessionEvent{Sessions: 7}); err != nil {
		t.Fatalf("record sessions: %v", err)
	}
	if got := testutil.ToFloat64(sink.sessions); got != 7 {
		t.Errorf("sessions gauge %v, want 7", got)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	// A second sink on the same registry reuses the collectors.
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	if err := sink.RecordCommit(coremetrics.CommitEvent{ScheduleID: "s1"}); err != nil {
		t.Errorf("record on reused collectors: %v", err)
	}
}

func TestMultiSink_FansOut(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	multi := NewMultiSink(prom, coremetrics.NopSink{})

	if err := multi.RecordCommit(coremetrics.CommitEvent{ScheduleID: "s1"}); err != nil {
		t.Fatalf("multi commit: %v", err)
	}
	if err := multi.RecordSessions(coremetrics.SessionEvent{Sessions: 1}); err != nil {
		t.Fatalf("multi sessions: %v", err)
	}
	if got := testutil.ToFloat64(prom.sessions); got != 1 {
		t.Errorf("fan-out missed the prom sink, gauge %v", got)
	}
}
