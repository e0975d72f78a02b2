package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/config"
)

// Logger is the logging surface the client needs. *logging.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Client is a publish-only MQTT session for one lock.
//
// On every (re)connect it publishes a retained "online" status for the lock;
// Close replaces it with "offline", and the broker-held will does the same
// when the connection drops.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
	lockID string

	mu           sync.RWMutex
	connected    bool
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// Connect opens a session to the configured broker for lockID.
//
// Parameters:
//   - cfg: MQTT section of config.yaml
//   - lockID: Lock identifier carried in status messages
//
// Returns:
//   - *Client: Connected client
//   - error: ErrConnectionFailed if the broker does not accept the connection in time
func Connect(cfg config.MQTTConfig, lockID string) (*Client, error) {
	c := &Client{cfg: cfg, lockID: lockID}

	opts := newOptions(cfg, lockID)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.connectionUp() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.connectionDown(err) })
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		if l := c.getLogger(); l != nil {
			l.Warn("MQTT reconnecting", "broker", brokerURL(cfg.Broker))
		}
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: %s: no answer after %v", ErrConnectionFailed, brokerURL(cfg.Broker), connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, brokerURL(cfg.Broker), err)
	}

	// The connect handler may still be in flight.
	c.setConnected(true)
	return c, nil
}

func (c *Client) connectionUp() {
	c.setConnected(true)
	c.publishStatus("online", "")

	c.mu.RLock()
	fn := c.onConnect
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) connectionDown(err error) {
	c.setConnected(false)

	c.mu.RLock()
	fn := c.onDisconnect
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// publishStatus sends the retained lock status without waiting for the
// acknowledgement; it runs on paho's callback goroutine.
func (c *Client) publishStatus(state, reason string) pahomqtt.Token {
	payload := statusPayload(state, c.lockID, c.cfg.Broker.ClientID, reason)
	return c.client.Publish(Topics{}.SystemStatus(), statusQoS, true, payload)
}

// Close publishes an "offline" status, then disconnects. Closing a client
// that never connected is a no-op.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}

	if c.IsConnected() {
		c.publishStatus("offline", ReasonShutdown).WaitTimeout(publishTimeout)
	}
	c.client.Disconnect(disconnectQuiesce)
	c.setConnected(false)

	if l := c.getLogger(); l != nil {
		l.Info("MQTT session closed", "lock_id", c.lockID)
	}
	return nil
}

// HealthCheck reports ErrNotConnected while the broker is unreachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// SetOnConnect registers fn to run after the initial connect and each reconnect.
func (c *Client) SetOnConnect(fn func()) {
	c.mu.Lock()
	c.onConnect = fn
	c.mu.Unlock()
}

// SetOnDisconnect registers fn to run when the connection is lost.
func (c *Client) SetOnDisconnect(fn func(err error)) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

// SetLogger sets the logger for reconnect and shutdown messages.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) getLogger() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
