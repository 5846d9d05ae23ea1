package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/coordinator"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/mqtt"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/ws"
)

// Config aggregates every tunable of the engine.
type Config struct {
	Server    ws.Config          `json:"server"`
	Engine    coordinator.Config `json:"engine"`
	Heartbeat HeartbeatConfig    `json:"heartbeat"`
	Metrics   metrics.Config     `json:"metrics"`
	MQTT      mqtt.Config        `json:"mqtt"`
}

// HeartbeatConfig tunes the session liveness monitor.
type HeartbeatConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
	AwaySeconds     int `json:"away_seconds"`
	OfflineSeconds  int `json:"offline_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HeartbeatConfig) SetDefaults() {
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = 5
	}
	if c.AwaySeconds <= 0 {
		c.AwaySeconds = 30
	}
	if c.OfflineSeconds <= 0 {
		c.OfflineSeconds = 90
	}
}

// Validate checks field consistency.
func (c HeartbeatConfig) Validate() error {
	if c.AwaySeconds >= c.OfflineSeconds {
		return fmt.Errorf("heartbeat: away_seconds must be below offline_seconds")
	}
	return nil
}

// Load reads the configuration file (yaml or json) and applies
// SCHED_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SCHED_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sched_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Engine.SetDefaults()
	cfg.Heartbeat.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Heartbeat.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
