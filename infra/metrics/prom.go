package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	commits   *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	solverDur prometheus.Histogram
	balance   prometheus.Gauge
	sessions  prometheus.Gauge
}

// NewPromSink registers engine metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_commits_total",
		Help: "Total number of accepted lesson commits",
	}, []string{"schedule_id", "reassigned"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_conflicts_total",
		Help: "Total number of edit conflicts detected and resolved",
	}, []string{"schedule_id", "resolved"})
	solverDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_solver_duration_seconds",
		Help:    "Duration of assignment solver passes",
		Buckets: prometheus.DefBuckets,
	})
	balance := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_load_balance_stddev",
		Help: "Standard deviation of per-teacher weekly load after the last solver pass",
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_sessions",
		Help: "Number of connected editor sessions",
	})

	if err := reg.Register(commits); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commits = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solverDur); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solverDur = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(balance); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			balance = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(sessions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sessions = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{commits: commits, conflicts: conflicts, solverDur: solverDur, balance: balance, sessions: sessions}, nil
}

func (s *PromSink) RecordCommit(ev coremetrics.CommitEvent) error {
	s.commits.WithLabelValues(ev.ScheduleID, strconv.FormatBool(ev.Reassigned)).Inc()
	return nil
}

func (s *PromSink) RecordConflict(ev coremetrics.ConflictEvent) error {
	s.conflicts.WithLabelValues(ev.ScheduleID, strconv.FormatBool(ev.Resolved)).Inc()
	return nil
}

func (s *PromSink) RecordSolverPass(ev coremetrics.SolverEvent) error {
	s.solverDur.Observe(ev.Duration.Seconds())
	s.balance.Set(ev.BalanceScore)
	return nil
}

func (s *PromSink) RecordSessions(ev coremetrics.SessionEvent) error {
	s.sessions.Set(float64(ev.Sessions))
	return nil
}
