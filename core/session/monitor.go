package session

import (
	"context"
	"time"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// MonitorConfig tunes the heartbeat liveness check. This is a liveness
// timeout, not a correctness one: the version store has no notion of
// time.
type MonitorConfig struct {
	// Interval between liveness sweeps.
	Interval time.Duration
	// AwayAfter marks a silent session away.
	AwayAfter time.Duration
	// OfflineAfter drops a silent session entirely, releasing its locks
	// and broadcasting the presence change.
	OfflineAfter time.Duration
}

// SetDefaults applies sane defaults.
func (c *MonitorConfig) SetDefaults() {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.AwayAfter <= 0 {
		c.AwayAfter = 30 * time.Second
	}
	if c.OfflineAfter <= 0 {
		c.OfflineAfter = 90 * time.Second
	}
}

// RunMonitor sweeps session heartbeats until the context is canceled.
// Sessions silent beyond OfflineAfter go through the same Leave path a
// clean disconnect uses, so lock release and presence broadcast happen
// exactly once either way.
func (r *Registry) RunMonitor(ctx context.Context, cfg MonitorConfig) {
	cfg.SetDefaults()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(cfg)
		}
	}
}

func (r *Registry) sweep(cfg MonitorConfig) {
	now := r.now()
	var expired []*Session

	r.mu.Lock()
	for editorID, p := range r.presence {
		s := r.byEditor[editorID]
		if s == nil {
			continue
		}
		silence := now.Sub(p.LastSeen)
		switch {
		case silence >= cfg.OfflineAfter:
			expired = append(expired, s)
		case silence >= cfg.AwayAfter && p.Status == model.StatusOnline:
			p.Status = model.StatusAway
			r.presence[editorID] = p
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.log.Warnf("editor %s timed out after heartbeat silence", s.EditorID)
		r.Leave(s)
	}
}
