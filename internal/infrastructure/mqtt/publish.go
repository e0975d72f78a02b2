package mqtt

import (
	"fmt"
	"strings"
)

// maxPayloadSize bounds a single message.
const maxPayloadSize = 64 << 10

// PublishRetained publishes a state message with the configured QoS. The
// broker keeps the last one per topic for late subscribers.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.publish(topic, payload, true)
}

// PublishEvent publishes an event or actuator command with the configured
// QoS. It is not retained, so it is never replayed to a late subscriber.
func (c *Client) PublishEvent(topic string, payload []byte) error {
	return c.publish(topic, payload, false)
}

func (c *Client) publish(topic string, payload []byte, retained bool) error {
	if topic == "" || strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, byte(c.cfg.QoS), retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s: no acknowledgement after %v", ErrPublishFailed, topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}
