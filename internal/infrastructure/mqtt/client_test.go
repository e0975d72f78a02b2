package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "doorlock-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"NodeMode", topics.NodeMode("door-001", "back"), "doorlock/door-001/state/back/mode"},
		{"NodeEvent", topics.NodeEvent("door-001", "front", "auth_attempt"), "doorlock/door-001/event/front/auth_attempt"},
		{"ActuatorCommand", topics.ActuatorCommand("door-001", "buzzer"), "doorlock/door-001/command/buzzer"},
		{"SystemStatus", topics.SystemStatus(), "doorlock/system/status"},
		{"AllEvents", topics.AllEvents("door-001"), "doorlock/door-001/event/+/+"},
		{"AllNodeModes", topics.AllNodeModes("door-001"), "doorlock/door-001/state/+/mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestNewOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "lock"
	cfg.Auth.Password = "secret"

	opts := newOptions(cfg, "door-001")

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want tcp://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != "doorlock-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "lock" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("AutoReconnect and CleanSession should be enabled")
	}
	if opts.TLSConfig != nil && opts.TLSConfig.MinVersion != 0 {
		t.Error("TLS configured without broker.tls")
	}

	cfg.Broker.TLS = true
	opts = newOptions(cfg, "door-001")
	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("TLS scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion == 0 {
		t.Error("TLSConfig should require a minimum version when TLS is enabled")
	}
}

func TestNewOptions_Will(t *testing.T) {
	opts := newOptions(testConfig(), "door-001")

	if !opts.WillEnabled || !opts.WillRetained {
		t.Fatalf("WillEnabled = %v WillRetained = %v, want both", opts.WillEnabled, opts.WillRetained)
	}
	if opts.WillTopic != (Topics{}).SystemStatus() {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}

	var s Status
	if err := json.Unmarshal(opts.WillPayload, &s); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if s.State != "offline" || s.LockID != "door-001" || s.Reason != ReasonConnection {
		t.Errorf("will = %+v", s)
	}
}

func TestStatusPayload(t *testing.T) {
	tests := []struct {
		state, reason string
	}{
		{"online", ""},
		{"offline", ReasonShutdown},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			var s Status
			if err := json.Unmarshal(statusPayload(tt.state, "door-001", "doorlock-test", tt.reason), &s); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if s.State != tt.state || s.Reason != tt.reason || s.ClientID != "doorlock-test" || s.At == "" {
				t.Errorf("status = %+v", s)
			}
		})
	}
}

func TestClose_NeverConnected(t *testing.T) {
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
	if err := (&Client{}).Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

func TestPublish_Validation(t *testing.T) {
	client := &Client{cfg: testConfig(), lockID: "door-001"}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		want    error
	}{
		{"empty topic", "", []byte("x"), ErrInvalidTopic},
		{"single-level wildcard", "doorlock/+/state", []byte("x"), ErrInvalidTopic},
		{"multi-level wildcard", "doorlock/#", []byte("x"), ErrInvalidTopic},
		{"oversize payload", "doorlock/t", make([]byte, maxPayloadSize+1), ErrPublishFailed},
		{"not connected", "doorlock/t", []byte("x"), ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.PublishEvent(tt.topic, tt.payload); !errors.Is(err, tt.want) {
				t.Errorf("PublishEvent() error = %v, want %v", err, tt.want)
			}
			if err := client.PublishRetained(tt.topic, tt.payload); !errors.Is(err, tt.want) {
				t.Errorf("PublishRetained() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	client := &Client{}

	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestConnectionCallbacks(t *testing.T) {
	client := &Client{}

	var lost error
	client.SetOnDisconnect(func(err error) { lost = err })
	client.setConnected(true)

	want := errors.New("broker went away")
	client.connectionDown(want)

	if !errors.Is(lost, want) {
		t.Errorf("onDisconnect got %v, want %v", lost, want)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after connection loss")
	}
}
