package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/config"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	keepAlive         = 60 * time.Second
	disconnectQuiesce = 250 // milliseconds

	// statusQoS applies to online/offline status regardless of mqtt.qos.
	statusQoS = 1
)

// Status reasons carried in offline messages.
const (
	ReasonShutdown   = "shutdown"
	ReasonConnection = "connection_lost"
)

// Status is the retained payload on Topics.SystemStatus.
type Status struct {
	State    string `json:"status"` // "online" or "offline"
	LockID   string `json:"lock_id"`
	ClientID string `json:"client_id"`
	Reason   string `json:"reason,omitempty"`
	At       string `json:"timestamp"`
}

// statusPayload renders a Status for lockID. Marshalling a flat struct of
// strings cannot fail.
func statusPayload(state, lockID, clientID, reason string) []byte {
	b, _ := json.Marshal(Status{ //nolint:errcheck // see above
		State:    state,
		LockID:   lockID,
		ClientID: clientID,
		Reason:   reason,
		At:       time.Now().UTC().Format(time.RFC3339),
	})
	return b
}

// brokerURL returns tcp:// or ssl:// for the configured broker.
func brokerURL(b config.MQTTBrokerConfig) string {
	scheme := "tcp"
	if b.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, b.Host, b.Port)
}

// newOptions builds paho options for a lock node. The broker publishes the
// will on Topics.SystemStatus when the node drops off without Close.
func newOptions(cfg config.MQTTConfig, lockID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions().
		AddBroker(brokerURL(cfg.Broker)).
		SetClientID(cfg.Broker.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second).
		SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepAlive)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}
	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	will := statusPayload("offline", lockID, cfg.Broker.ClientID, ReasonConnection)
	opts.SetBinaryWill(Topics{}.SystemStatus(), will, statusQoS, true)

	return opts
}
