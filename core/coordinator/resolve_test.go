package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"accept_incoming", "keep_current", "merge"} {
		s, err := ParseStrategy(name)
		assert.NoError(t, err, "strategy %s should parse", name)
		assert.Equal(t, Strategy(name), s)
	}
	_, err := ParseStrategy("coin_flip")
	assert.Error(t, err, "unknown strategy should be rejected")
}

func TestResolvedState(t *testing.T) {
	latest := map[string]any{"start": "10:00", "room": "A1"}
	cf := model.Conflict{
		Proposed: model.EditIntent{Changes: map[string]any{"start": "11:00", "room": "B2"}},
	}

	got := resolvedState(AcceptIncoming, latest, cf, nil)
	assert.Equal(t, "11:00", got["start"])
	assert.Equal(t, "B2", got["room"])

	got = resolvedState(KeepCurrent, latest, cf, nil)
	assert.Equal(t, "10:00", got["start"])
	assert.Equal(t, "A1", got["room"])

	got = resolvedState(MergeFields, latest, cf, map[string]string{"room": "incoming", "start": "current"})
	assert.Equal(t, "10:00", got["start"])
	assert.Equal(t, "B2", got["room"])

	// Fields not named in the choices keep current.
	got = resolvedState(MergeFields, latest, cf, nil)
	assert.Equal(t, latest, got)
}

func TestDisjoint(t *testing.T) {
	intervening := map[string]struct{}{"start": {}, "end": {}}
	assert.True(t, disjoint(map[string]any{"room": "B2"}, intervening))
	assert.False(t, disjoint(map[string]any{"start": "11:00"}, intervening))
	assert.True(t, disjoint(nil, intervening))
	assert.True(t, disjoint(map[string]any{"room": "B2"}, nil))
}
