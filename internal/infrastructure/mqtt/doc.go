// Package mqtt publishes door lock state, events and actuator commands to an
// MQTT broker.
//
// The session is publish-only:
//   - Retained node mode under doorlock/{lock}/state/{node}/mode
//   - Node events under doorlock/{lock}/event/{node}/{kind}
//   - Motor and buzzer commands under doorlock/{lock}/command/{actuator},
//     consumed by a GPIO bridge when the actuator driver is "mqtt"
//   - Online/offline status on doorlock/system/status, backed by a broker will
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Node.ID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.NodeMode("door-001", "back")
//	client.PublishRetained(topic, []byte(`{"mode":"main_menu"}`))
package mqtt
