package coordinator

import (
	"fmt"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// Strategy selects how a conflict is resolved.
type Strategy string

const (
	// AcceptIncoming applies the conflicting edit, discarding the
	// intervening committed state.
	AcceptIncoming Strategy = "accept_incoming"
	// KeepCurrent discards the conflicting edit.
	KeepCurrent Strategy = "keep_current"
	// MergeFields resolves per field: the caller names which side wins
	// for each field; unnamed fields keep current.
	MergeFields Strategy = "merge"
)

// ParseStrategy validates a wire-level strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case AcceptIncoming, KeepCurrent, MergeFields:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown resolution strategy %q", s)
	}
}

// resolvedState computes the state a resolution commits, from the latest
// committed state and the conflict's proposed changes.
func resolvedState(strategy Strategy, latest map[string]any, c model.Conflict, fieldChoices map[string]string) map[string]any {
	out := make(map[string]any, len(latest))
	for k, v := range latest {
		out[k] = v
	}
	switch strategy {
	case AcceptIncoming:
		for k, v := range c.Proposed.Changes {
			out[k] = v
		}
	case MergeFields:
		for k, side := range fieldChoices {
			if side != "incoming" {
				continue
			}
			if v, ok := c.Proposed.Changes[k]; ok {
				out[k] = v
			}
		}
	case KeepCurrent:
		// latest already wins
	}
	return out
}

// disjoint reports whether the proposed changes touch none of the fields
// the intervening commits changed. Such conflicts are auto-resolvable:
// applying the proposed changes on top of the latest state loses nothing.
func disjoint(proposed map[string]any, intervening map[string]struct{}) bool {
	for k := range proposed {
		if _, ok := intervening[k]; ok {
			return false
		}
	}
	return true
}
