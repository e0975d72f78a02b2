package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Node roles.
const (
	RoleFront = "front"
	RoleBack  = "back"
	RoleSim   = "sim"
)

// Actuator drivers.
const (
	DriverLog  = "log"
	DriverMQTT = "mqtt"
)

// maxDoorSeconds is the longest delay the sequencer accepts.
const maxDoorSeconds = 255

// Config is the root configuration structure for a door lock node.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Node      NodeConfig      `yaml:"node"`
	Serial    SerialConfig    `yaml:"serial"`
	Door      DoorConfig      `yaml:"door"`
	Keypad    KeypadConfig    `yaml:"keypad"`
	Actuator  ActuatorConfig  `yaml:"actuator"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NodeConfig selects which half of the lock this process runs.
type NodeConfig struct {
	// Role is "front" (keypad and display), "back" (door control) or
	// "sim" (both halves in one process over an in-memory link).
	Role string `yaml:"role"`

	// ID names this lock in topics, telemetry tags and audit entries.
	ID string `yaml:"id"`
}

// SerialConfig contains the UART link settings.
type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	StopBits int    `yaml:"stop_bits"`
	Parity   string `yaml:"parity"`

	// ReadTimeoutMS bounds each blocking read so cancellation is noticed.
	ReadTimeoutMS int `yaml:"read_timeout_ms"`
}

// DoorConfig contains the door sequence timing, in whole seconds.
type DoorConfig struct {
	OpenSeconds  int `yaml:"open_seconds"`
	HoldSeconds  int `yaml:"hold_seconds"`
	CloseSeconds int `yaml:"close_seconds"`
	AlarmSeconds int `yaml:"alarm_seconds"`

	// TickPeriodMS is the hardware tick period the delays are counted in.
	TickPeriodMS int `yaml:"tick_period_ms"`
}

// KeypadConfig contains keypad input settings.
type KeypadConfig struct {
	// DebounceMS is the pause after each accepted key press.
	DebounceMS int `yaml:"debounce_ms"`
}

// ActuatorConfig selects how motor and buzzer commands leave the back node.
type ActuatorConfig struct {
	// Driver is "log" (commands are only logged) or "mqtt" (commands are
	// published to a GPIO bridge).
	Driver string `yaml:"driver"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP status API settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains live event stream settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DOORLOCK_SECTION_KEY
// For example: DOORLOCK_NODE_ROLE, DOORLOCK_SERIAL_DEVICE
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides
// applied. It is used when no config file exists.
func Default() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with factory door timing and a 9600 8N1 link.
func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			Role: RoleSim,
			ID:   "door-001",
		},
		Serial: SerialConfig{
			Device:        "/dev/ttyUSB0",
			BaudRate:      9600,
			DataBits:      8,
			StopBits:      1,
			Parity:        "N",
			ReadTimeoutMS: 100,
		},
		Door: DoorConfig{
			OpenSeconds:  15,
			HoldSeconds:  3,
			CloseSeconds: 15,
			AlarmSeconds: 60,
			TickPeriodMS: 1000,
		},
		Keypad: KeypadConfig{
			DebounceMS: 400,
		},
		Actuator: ActuatorConfig{
			Driver: DriverLog,
		},
		Database: DatabaseConfig{
			Path:        "./data/doorlock.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "doorlock",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "doorlock",
			Bucket:        "doorlock",
			BatchSize:     100,
			FlushInterval: 10,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 4096,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DOORLOCK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Node
	if v := os.Getenv("DOORLOCK_NODE_ROLE"); v != "" {
		cfg.Node.Role = v
	}
	if v := os.Getenv("DOORLOCK_NODE_ID"); v != "" {
		cfg.Node.ID = v
	}

	// Serial
	if v := os.Getenv("DOORLOCK_SERIAL_DEVICE"); v != "" {
		cfg.Serial.Device = v
	}
	if v := os.Getenv("DOORLOCK_SERIAL_BAUD_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Serial.BaudRate = n
		}
	}

	// Database
	if v := os.Getenv("DOORLOCK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("DOORLOCK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("DOORLOCK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("DOORLOCK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("DOORLOCK_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("DOORLOCK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error { //nolint:gocognit,gocyclo // flat list of independent field checks
	var errs []string

	switch c.Node.Role {
	case RoleFront, RoleBack, RoleSim:
	default:
		errs = append(errs, fmt.Sprintf("node.role must be %q, %q or %q", RoleFront, RoleBack, RoleSim))
	}
	if c.Node.ID == "" {
		errs = append(errs, "node.id is required")
	}

	if c.Node.Role != RoleSim {
		if c.Serial.Device == "" {
			errs = append(errs, "serial.device is required for front and back roles")
		}
		if c.Serial.BaudRate <= 0 {
			errs = append(errs, "serial.baud_rate must be positive")
		}
		if c.Serial.DataBits < 5 || c.Serial.DataBits > 8 {
			errs = append(errs, "serial.data_bits must be between 5 and 8")
		}
		if c.Serial.StopBits != 1 && c.Serial.StopBits != 2 {
			errs = append(errs, "serial.stop_bits must be 1 or 2")
		}
		switch c.Serial.Parity {
		case "N", "E", "O":
		default:
			errs = append(errs, `serial.parity must be "N", "E" or "O"`)
		}
	}

	for name, v := range map[string]int{
		"door.open_seconds":  c.Door.OpenSeconds,
		"door.hold_seconds":  c.Door.HoldSeconds,
		"door.close_seconds": c.Door.CloseSeconds,
		"door.alarm_seconds": c.Door.AlarmSeconds,
	} {
		if v < 0 || v > maxDoorSeconds {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and %d", name, maxDoorSeconds))
		}
	}
	if c.Door.TickPeriodMS <= 0 {
		errs = append(errs, "door.tick_period_ms must be positive")
	}

	if c.Keypad.DebounceMS < 0 {
		errs = append(errs, "keypad.debounce_ms must not be negative")
	}

	switch c.Actuator.Driver {
	case DriverLog:
	case DriverMQTT:
		if !c.MQTT.Enabled {
			errs = append(errs, "actuator.driver mqtt requires mqtt.enabled")
		}
	default:
		errs = append(errs, fmt.Sprintf("actuator.driver must be %q or %q", DriverLog, DriverMQTT))
	}

	if c.usesDatabase() && c.Database.Path == "" {
		errs = append(errs, "database.path is required for back and sim roles")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		// Map iteration above is unordered.
		slices.Sort(errs)
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// usesDatabase reports whether the role runs the back node.
func (c *Config) usesDatabase() bool {
	return c.Node.Role == RoleBack || c.Node.Role == RoleSim
}

// TickPeriod returns the door timer tick period as a Duration.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Door.TickPeriodMS) * time.Millisecond
}

// Debounce returns the keypad debounce pause as a Duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Keypad.DebounceMS) * time.Millisecond
}

// SerialReadTimeout returns the per-read serial timeout as a Duration.
func (c *Config) SerialReadTimeout() time.Duration {
	return time.Duration(c.Serial.ReadTimeoutMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
