// Package app wires the engine together: configuration in, a running
// coordinator with its transport, monitor and observers out.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/axelvallin-balder/schedule-builder-sub001/config"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/coordinator"
	coremetrics "github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/session"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/solver"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/store"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/version"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/logger"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/mqtt"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/ws"
)

// Service orchestrates the coordinator, its transport and observers.
type Service struct {
	Coordinator *coordinator.Coordinator
	server      *ws.Server
	registry    *session.Registry
	commitSink  store.CommitSink
	publisher   *mqtt.CommitPublisher
	cfg         *config.Config
	log         logger.Logger
}

// Fixtures seed the engine when no administrative backend is attached.
type Fixtures struct {
	Schedules map[string][]model.Lesson
	Courses   []model.Course
	Teachers  []model.Teacher
}

// New creates a Service from the configuration.
func New(cfg *config.Config, fx Fixtures) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.EngineSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.EngineSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var sessSink coremetrics.SessionRecorder = coremetrics.NopSink{}
	if sr, ok := sink.(coremetrics.SessionRecorder); ok {
		sessSink = sr
	}
	registry := session.NewRegistry(logger.New("sessions"), sessSink)
	versions := version.NewMemoryStore()
	loader := store.NewMemoryLoader(fx.Schedules)
	dir := store.NewMemoryDirectory(fx.Courses, fx.Teachers)

	coord := coordinator.New(cfg.Engine, registry, versions, solver.NewGreedySolver(), dir, loader,
		logger.New("coordinator"), sink)

	var commitSink store.CommitSink = store.NopSink{}
	var publisher *mqtt.CommitPublisher
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewCommitPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = p
		commitSink = p
	}

	return &Service{
		Coordinator: coord,
		server:      ws.NewServer(cfg.Server, coord, logger.New("ws")),
		registry:    registry,
		commitSink:  commitSink,
		publisher:   publisher,
		cfg:         cfg,
		log:         logg,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.registry.RunMonitor(ctx, session.MonitorConfig{
		Interval:     time.Duration(s.cfg.Heartbeat.IntervalSeconds) * time.Second,
		AwayAfter:    time.Duration(s.cfg.Heartbeat.AwaySeconds) * time.Second,
		OfflineAfter: time.Duration(s.cfg.Heartbeat.OfflineSeconds) * time.Second,
	})
	go s.bridgeCommits(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return s.server.Run(ctx)
}

// bridgeCommits forwards accepted commits from the coordinator's bus to
// the durable-storage collaborator.
func (s *Service) bridgeCommits(ctx context.Context) {
	commits := s.Coordinator.Commits().Subscribe()
	defer s.Coordinator.Commits().Unsubscribe(commits)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-commits:
			if !ok {
				return
			}
			if err := s.commitSink.OnCommit(ev.LessonID, ev.State, ev.Version); err != nil {
				s.log.Errorf("persist commit %s v%d: %v", ev.LessonID, ev.Version, err)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Coordinator.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}
