package telemetry

import (
	"encoding/json"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/mqtt"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// Publisher is the part of *mqtt.Client the MQTT sink needs.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
	PublishEvent(topic string, payload []byte) error
}

// ModeState is the retained payload on a node's mode topic.
type ModeState struct {
	Mode protocol.Mode `json:"mode"`
	Code byte          `json:"code"`
	At   time.Time     `json:"at"`
}

// MQTTSink publishes node events to the broker.
//
// Every event goes to doorlock/{lock}/event/{node}/{kind}. Mode changes
// also update the retained doorlock/{lock}/state/{node}/mode topic so a late
// subscriber sees the current mode of each node.
type MQTTSink struct {
	pub    Publisher
	lockID string
	logger Logger
}

// NewMQTTSink creates a sink for the given lock.
func NewMQTTSink(pub Publisher, lockID string) *MQTTSink {
	return &MQTTSink{pub: pub, lockID: lockID, logger: noopLogger{}}
}

// SetLogger sets the logger used to report publish failures.
func (s *MQTTSink) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Observe publishes e.
func (s *MQTTSink) Observe(e protocol.Event) {
	topics := mqtt.Topics{}

	if e.Kind == protocol.EventModeChanged {
		state, err := json.Marshal(ModeState{Mode: e.Mode, Code: byte(e.Mode), At: e.At})
		if err == nil {
			err = s.pub.PublishRetained(topics.NodeMode(s.lockID, e.Node), state)
		}
		if err != nil {
			s.logger.Warn("publishing node mode failed", "node", e.Node, "error", err)
		}
	}

	payload, err := json.Marshal(e)
	if err == nil {
		err = s.pub.PublishEvent(topics.NodeEvent(s.lockID, e.Node, string(e.Kind)), payload)
	}
	if err != nil {
		s.logger.Warn("publishing node event failed", "node", e.Node, "kind", string(e.Kind), "error", err)
	}
}
