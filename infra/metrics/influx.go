package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.EngineSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordCommit writes the accepted commit as a line-protocol point.
func (s *InfluxSink) RecordCommit(ev coremetrics.CommitEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_commit").
		AddTag("schedule_id", ev.ScheduleID).
		AddTag("lesson_id", ev.LessonID).
		AddTag("reassigned", strconv.FormatBool(ev.Reassigned)).
		AddField("version", ev.Version).
		AddField("editor_id", ev.EditorID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordConflict writes a conflict lifecycle event.
func (s *InfluxSink) RecordConflict(ev coremetrics.ConflictEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_conflict").
		AddTag("schedule_id", ev.ScheduleID).
		AddTag("lesson_id", ev.LessonID).
		AddTag("resolved", strconv.FormatBool(ev.Resolved)).
		AddField("conflict_id", ev.ConflictID).
		AddField("strategy", ev.Strategy).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSolverPass writes a solver pass summary.
func (s *InfluxSink) RecordSolverPass(ev coremetrics.SolverEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_solver_pass").
		AddField("courses", ev.Courses).
		AddField("assigned", ev.Assigned).
		AddField("unassigned", ev.Unassigned).
		AddField("balance_stddev", ev.BalanceScore).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSessions writes the connected session count.
func (s *InfluxSink) RecordSessions(ev coremetrics.SessionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_sessions").
		AddField("sessions", ev.Sessions).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
