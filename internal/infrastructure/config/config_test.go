package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to a temp config.yaml and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
node:
  role: "back"
  id: "door-test"
serial:
  device: "/dev/ttyS1"
door:
  open_seconds: 5
database:
  path: "/tmp/test.db"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Node.Role != RoleBack {
		t.Errorf("Node.Role = %q, want %q", cfg.Node.Role, RoleBack)
	}
	if cfg.Serial.Device != "/dev/ttyS1" {
		t.Errorf("Serial.Device = %q, want %q", cfg.Serial.Device, "/dev/ttyS1")
	}
	if cfg.Door.OpenSeconds != 5 {
		t.Errorf("Door.OpenSeconds = %d, want 5", cfg.Door.OpenSeconds)
	}
	// Unset keys keep their defaults.
	if cfg.Door.HoldSeconds != 3 {
		t.Errorf("Door.HoldSeconds = %d, want default 3", cfg.Door.HoldSeconds)
	}
	if cfg.Serial.BaudRate != 9600 {
		t.Errorf("Serial.BaudRate = %d, want default 9600", cfg.Serial.BaudRate)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "invalid: [yaml: content")); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfig(t, `
node:
  role: "gateway"
`))
	if err == nil {
		t.Fatal("Load() expected validation error for unknown role, got nil")
	}
	if !strings.Contains(err.Error(), "node.role") {
		t.Errorf("error %q should name node.role", err)
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if cfg.Node.Role != RoleSim {
		t.Errorf("Node.Role = %q, want %q", cfg.Node.Role, RoleSim)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown role",
			mutate:  func(c *Config) { c.Node.Role = "relay" },
			wantErr: "node.role",
		},
		{
			name:    "missing node id",
			mutate:  func(c *Config) { c.Node.ID = "" },
			wantErr: "node.id",
		},
		{
			name: "back role needs serial device",
			mutate: func(c *Config) {
				c.Node.Role = RoleBack
				c.Serial.Device = ""
			},
			wantErr: "serial.device",
		},
		{
			name: "sim role ignores serial",
			mutate: func(c *Config) {
				c.Serial.Device = ""
				c.Serial.Parity = "X"
			},
		},
		{
			name: "bad parity",
			mutate: func(c *Config) {
				c.Node.Role = RoleFront
				c.Serial.Parity = "M"
			},
			wantErr: "serial.parity",
		},
		{
			name:    "door seconds above one byte",
			mutate:  func(c *Config) { c.Door.AlarmSeconds = 256 },
			wantErr: "door.alarm_seconds",
		},
		{
			name:    "negative door seconds",
			mutate:  func(c *Config) { c.Door.HoldSeconds = -1 },
			wantErr: "door.hold_seconds",
		},
		{
			name:   "zero door seconds allowed",
			mutate: func(c *Config) { c.Door.OpenSeconds = 0 },
		},
		{
			name:    "zero tick period",
			mutate:  func(c *Config) { c.Door.TickPeriodMS = 0 },
			wantErr: "door.tick_period_ms",
		},
		{
			name:    "mqtt actuator without broker",
			mutate:  func(c *Config) { c.Actuator.Driver = DriverMQTT },
			wantErr: "actuator.driver",
		},
		{
			name:    "front role needs no database",
			mutate:  func(c *Config) { c.Node.Role = RoleFront; c.Database.Path = "" },
			wantErr: "",
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid API port",
			mutate:  func(c *Config) { c.API.Enabled = true; c.API.Port = 70000 },
			wantErr: "api.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Node.ID = ""
	cfg.MQTT.QoS = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"node.id", "mqtt.qos"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.TickPeriod(); got != time.Second {
		t.Errorf("TickPeriod() = %v, want 1s", got)
	}
	if got := cfg.Debounce(); got != 400*time.Millisecond {
		t.Errorf("Debounce() = %v, want 400ms", got)
	}
	if got := cfg.SerialReadTimeout(); got != 100*time.Millisecond {
		t.Errorf("SerialReadTimeout() = %v, want 100ms", got)
	}
	if got := cfg.GetReadTimeout().Seconds(); got != 10 {
		t.Errorf("GetReadTimeout() = %v, want 10", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("DOORLOCK_NODE_ROLE", "front")
	t.Setenv("DOORLOCK_NODE_ID", "door-east")
	t.Setenv("DOORLOCK_SERIAL_DEVICE", "/dev/ttyAMA0")
	t.Setenv("DOORLOCK_SERIAL_BAUD_RATE", "19200")
	t.Setenv("DOORLOCK_DATABASE_PATH", "/custom/path.db")
	t.Setenv("DOORLOCK_MQTT_HOST", "mqtt.example.com")
	t.Setenv("DOORLOCK_MQTT_USERNAME", "testuser")
	t.Setenv("DOORLOCK_MQTT_PASSWORD", "testpass")
	t.Setenv("DOORLOCK_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("DOORLOCK_LOG_LEVEL", "debug")

	applyEnvOverrides(cfg)

	checks := []struct {
		field, got, want string
	}{
		{"Node.Role", cfg.Node.Role, "front"},
		{"Node.ID", cfg.Node.ID, "door-east"},
		{"Serial.Device", cfg.Serial.Device, "/dev/ttyAMA0"},
		{"Database.Path", cfg.Database.Path, "/custom/path.db"},
		{"MQTT.Broker.Host", cfg.MQTT.Broker.Host, "mqtt.example.com"},
		{"MQTT.Auth.Username", cfg.MQTT.Auth.Username, "testuser"},
		{"MQTT.Auth.Password", cfg.MQTT.Auth.Password, "testpass"},
		{"InfluxDB.Token", cfg.InfluxDB.Token, "secret-token"},
		{"Logging.Level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if cfg.Serial.BaudRate != 19200 {
		t.Errorf("Serial.BaudRate = %d, want 19200", cfg.Serial.BaudRate)
	}
}

func TestApplyEnvOverrides_BadBaudIgnored(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("DOORLOCK_SERIAL_BAUD_RATE", "fast")
	applyEnvOverrides(cfg)
	if cfg.Serial.BaudRate != 9600 {
		t.Errorf("Serial.BaudRate = %d, want 9600", cfg.Serial.BaudRate)
	}
}
