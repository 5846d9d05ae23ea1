// Package mqtt bridges the engine's persistence boundary to an MQTT
// broker: every accepted commit is published so the external
// durable-storage collaborator can persist it at its own pace.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/axelvallin-balder/schedule-builder-sub001/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Retain      bool   `json:"retain"`
	TimeoutMS   int    `json:"timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "schedule-engine"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "schedule/commits"
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 5000
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("mqtt: broker is required when enabled")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// CommitPublisher implements the engine's CommitSink by publishing each
// accepted commit as JSON to <prefix>/<lessonID>.
type CommitPublisher struct {
	cli     pahoClient
	prefix  string
	qos     byte
	retain  bool
	timeout time.Duration
	log     logger.Logger
}

// commitPayload is the wire form of one persisted commit.
type commitPayload struct {
	LessonID string         `json:"lesson_id"`
	State    map[string]any `json:"state"`
	Version  int64          `json:"version"`
	Time     time.Time      `json:"time"`
}

// NewCommitPublisher connects to the broker and returns the publisher.
func NewCommitPublisher(cfg Config) (*CommitPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &CommitPublisher{
		cli:     cli,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		retain:  cfg.Retain,
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		log:     log,
	}, nil
}

// OnCommit publishes the commit. Publishing is best-effort from the
// engine's point of view: a broker outage must not stall editing, so
// errors are returned for logging but carry no rollback semantics.
func (p *CommitPublisher) OnCommit(lessonID string, state map[string]any, version int64) error {
	payload, err := json.Marshal(commitPayload{
		LessonID: lessonID,
		State:    state,
		Version:  version,
		Time:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal commit: %w", err)
	}
	topic := fmt.Sprintf("%s/%s", p.prefix, lessonID)
	token := p.cli.Publish(topic, p.qos, p.retain, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *CommitPublisher) Close() {
	p.cli.Disconnect(250)
}
