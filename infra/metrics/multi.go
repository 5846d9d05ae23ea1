package metrics

import coremetrics "github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"

// MultiSink fans engine events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.EngineSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.EngineSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommit forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordCommit(ev coremetrics.CommitEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommit(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordConflict forwards conflict events to sinks that record them.
func (m *MultiSink) RecordConflict(ev coremetrics.ConflictEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ConflictRecorder); ok {
			if err := rec.RecordConflict(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSolverPass forwards solver summaries to sinks that record them.
func (m *MultiSink) RecordSolverPass(ev coremetrics.SolverEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SolverRecorder); ok {
			if err := rec.RecordSolverPass(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSessions forwards session counts to sinks that record them.
func (m *MultiSink) RecordSessions(ev coremetrics.SessionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SessionRecorder); ok {
			if err := rec.RecordSessions(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
