// Door lock node.
//
// This is the entry point for both halves of the keypad door lock:
//   - front: keypad and 2x16 display, talks to the back node over UART
//   - back: password store, door motor and alarm buzzer
//   - sim: both halves in one process over an in-memory link
//
// Around the nodes it wires persistent storage (SQLite), the MQTT event bus,
// InfluxDB telemetry and the read-only status API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	_ "github.com/h4z3m/SecuritySystem-Atmega16/migrations"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/actuator"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/api"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/audit"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/control"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/eeprom"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/hmi"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/config"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/database"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/influxdb"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/logging"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/mqtt"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/serial"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/panel"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/telemetry"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/timer"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runner is a node main loop.
type runner interface {
	api.ModeReader
	Run(ctx context.Context) error
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear start-up sequence
	log := logging.Default()
	log.Info("starting door lock",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version).With("lock_id", cfg.Node.ID)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"role", cfg.Node.Role,
	)

	checks := make(map[string]api.HealthChecker)

	// Open database (back and sim roles hold the password store and audit log)
	var (
		db        *database.DB
		auditRepo audit.Repository
	)
	if cfg.Node.Role != config.RoleFront {
		db, err = database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")

		auditRepo = audit.NewSQLiteRepository(db.DB)
		checks["database"] = db
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT, cfg.Node.ID)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	var hub *api.Hub
	if cfg.API.Enabled {
		hub = api.NewHub(cfg.WebSocket, log)
		go hub.Run(ctx)
	}

	observer, closeSinks := buildTelemetry(cfg, log, mqttClient, influxClient, auditRepo, hub)
	defer closeSinks()

	nodes, closeLinks, err := buildNodes(ctx, cfg, log, db, mqttClient, observer)
	if err != nil {
		return err
	}
	defer closeLinks()

	// Start the status API (optional)
	if cfg.API.Enabled {
		readers := make(map[string]api.ModeReader, len(nodes))
		for role, n := range nodes {
			readers[role] = n
		}
		srv, srvErr := api.New(api.Deps{
			Config:    cfg.API,
			WS:        cfg.WebSocket,
			Logger:    log,
			LockID:    cfg.Node.ID,
			Nodes:     readers,
			Checks:    checks,
			AuditRepo: auditRepo,
			Hub:       hub,
			Version:   version,
		})
		if srvErr != nil {
			return fmt.Errorf("creating API server: %w", srvErr)
		}
		if startErr := srv.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			log.Info("stopping API server")
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error stopping API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API disabled")
	}

	if err := healthCheck(ctx, checks); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, running nodes", "nodes", len(nodes))

	// A node that stops for any reason stops the others.
	g, gctx := errgroup.WithContext(ctx)
	for role, n := range nodes {
		g.Go(func() error {
			if runErr := n.Run(gctx); runErr != nil {
				return fmt.Errorf("%s node: %w", role, runErr)
			}
			return nil
		})
	}
	err = g.Wait()

	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		log.Info("shutdown signal received, cleaning up")
		err = nil
	}

	log.Info("door lock stopped")
	return err
}

// getConfigPath returns the configuration file path.
// Uses DOORLOCK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DOORLOCK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies every connected component answers.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	for name, c := range checks {
		if err := c.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// buildTelemetry fans node events out to every configured sink. Each sink
// gets its own queue so a slow broker cannot stall the node loops.
//
// The returned function drains and stops the queues.
func buildTelemetry(
	cfg *config.Config,
	log *logging.Logger,
	mqttClient *mqtt.Client,
	influxClient *influxdb.Client,
	auditRepo audit.Repository,
	hub *api.Hub,
) (protocol.Observer, func()) {
	var queues []*telemetry.Async
	add := func(name string, o protocol.Observer) {
		q := telemetry.NewAsync(name, o, telemetry.DefaultQueueSize)
		q.SetLogger(log)
		queues = append(queues, q)
	}

	if mqttClient != nil {
		sink := telemetry.NewMQTTSink(mqttClient, cfg.Node.ID)
		sink.SetLogger(log)
		add("mqtt", sink)
	}
	if influxClient != nil {
		add("influxdb", telemetry.NewInfluxSink(influxClient, cfg.Node.ID, doorTiming(cfg.Door)))
	}
	if auditRepo != nil {
		sink := telemetry.NewAuditSink(auditRepo)
		sink.SetLogger(log)
		add("audit", sink)
	}
	if hub != nil {
		add("websocket", hub)
	}

	fan := make(telemetry.Fanout, 0, len(queues))
	for _, q := range queues {
		fan = append(fan, q)
	}
	return fan, func() {
		for _, q := range queues {
			q.Close()
		}
	}
}

// buildNodes creates the nodes for the configured role, keyed by role name.
//
// The returned function closes the serial port or in-memory link.
func buildNodes(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	db *database.DB,
	mqttClient *mqtt.Client,
	observer protocol.Observer,
) (map[string]runner, func(), error) {
	switch cfg.Node.Role {
	case config.RoleFront:
		port, err := openSerial(cfg.Serial, log)
		if err != nil {
			return nil, nil, err
		}
		front := newFront(cfg, log, protocol.NewStreamChannel(port), observer)
		return map[string]runner{protocol.RoleFront: front}, closer(log, "serial port", port.Close), nil

	case config.RoleBack:
		port, err := openSerial(cfg.Serial, log)
		if err != nil {
			return nil, nil, err
		}
		back, err := newBack(ctx, cfg, log, protocol.NewStreamChannel(port), db, mqttClient, observer)
		if err != nil {
			port.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, nil, err
		}
		return map[string]runner{protocol.RoleBack: back}, closer(log, "serial port", port.Close), nil

	case config.RoleSim:
		frontEnd, backEnd := protocol.Pipe()
		closeLink := func() {
			frontEnd.Close() //nolint:errcheck // in-memory link
			backEnd.Close()  //nolint:errcheck // in-memory link
		}
		back, err := newBack(ctx, cfg, log, backEnd, db, mqttClient, observer)
		if err != nil {
			closeLink()
			return nil, nil, err
		}
		front := newFront(cfg, log, frontEnd, observer)
		log.Info("simulation link ready")
		return map[string]runner{
			protocol.RoleFront: front,
			protocol.RoleBack:  back,
		}, closeLink, nil

	default:
		return nil, nil, fmt.Errorf("unknown node role %q", cfg.Node.Role)
	}
}

// openSerial opens the UART link to the other node.
func openSerial(cfg config.SerialConfig, log *logging.Logger) (*serial.Port, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening serial link: %w", err)
	}
	log.Info("serial link open",
		"device", cfg.Device,
		"baud_rate", cfg.BaudRate,
	)
	return port, nil
}

// newFront builds the keypad and display node on a terminal.
func newFront(cfg *config.Config, log *logging.Logger, ch protocol.Channel, observer protocol.Observer) *hmi.Node {
	n := hmi.New(ch, panel.NewReaderKeypad(os.Stdin), panel.NewTextDisplay(os.Stdout))
	n.SetLogger(log.ForNode(protocol.RoleFront))
	n.SetObserver(observer)

	timing := hmi.DefaultTiming()
	timing.KeyDebounce = cfg.Debounce()
	n.SetTiming(timing)
	return n
}

// newBack builds the door control node and loads any stored password.
func newBack(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	ch protocol.Channel,
	db *database.DB,
	mqttClient *mqtt.Client,
	observer protocol.Observer,
) (*control.Node, error) {
	nodeLog := log.ForNode(protocol.RoleBack)

	motor, buzzer := buildActuators(cfg, nodeLog, mqttClient)
	delay := timer.NewDelayer(timer.NewTickerTimer(cfg.TickPeriod()))
	seq := control.NewSequencer(motor, buzzer, delay, doorTiming(cfg.Door))
	seq.SetLogger(nodeLog)

	n := control.New(ch, eeprom.NewSQLiteStore(db.DB), seq)
	n.SetLogger(nodeLog)
	n.SetObserver(observer)

	enrolled, err := n.LoadPassword(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stored password: %w", err)
	}
	nodeLog.Info("password store loaded", "enrolled", enrolled)
	return n, nil
}

// buildActuators selects the motor and buzzer drivers.
func buildActuators(cfg *config.Config, log *logging.Logger, mqttClient *mqtt.Client) (actuator.Motor, actuator.Buzzer) {
	if cfg.Actuator.Driver == config.DriverMQTT && mqttClient != nil {
		log.Info("actuators publish to MQTT")
		return actuator.NewMQTTMotor(mqttClient, cfg.Node.ID), actuator.NewMQTTBuzzer(mqttClient, cfg.Node.ID)
	}
	return actuator.NewLogMotor(log), actuator.NewLogBuzzer(log)
}

// doorTiming converts the door section of config.yaml.
func doorTiming(d config.DoorConfig) control.DoorTiming {
	return control.DoorTiming{
		Open:  d.OpenSeconds,
		Hold:  d.HoldSeconds,
		Close: d.CloseSeconds,
		Alarm: d.AlarmSeconds,
	}
}

// closer logs a failed close.
func closer(log *logging.Logger, name string, fn func() error) func() {
	return func() {
		log.Info("closing " + name)
		if err := fn(); err != nil {
			log.Error("error closing "+name, "error", err)
		}
	}
}
