package mqtt

import "fmt"

// Topic prefixes.
//
// Lock topics use the scheme: doorlock/{lock_id}/{category}/...
const (
	// TopicPrefix is the base for all door lock topics.
	TopicPrefix = "doorlock"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "doorlock/system"
)

// Topics provides builders for door lock MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	modeTopic := topics.NodeMode("door-001", "back")
//	// Returns: "doorlock/door-001/state/back/mode"
type Topics struct{}

// NodeMode returns the retained topic carrying a node's current mode.
//
// Example: doorlock/door-001/state/back/mode
func (Topics) NodeMode(lockID, node string) string {
	return fmt.Sprintf("%s/%s/state/%s/mode", TopicPrefix, lockID, node)
}

// NodeEvent returns the topic for one kind of node event.
//
// Example: doorlock/door-001/event/back/auth_attempt
func (Topics) NodeEvent(lockID, node, kind string) string {
	return fmt.Sprintf("%s/%s/event/%s/%s", TopicPrefix, lockID, node, kind)
}

// ActuatorCommand returns the topic a GPIO bridge listens on for an actuator.
//
// Example: doorlock/door-001/command/motor
func (Topics) ActuatorCommand(lockID, actuator string) string {
	return fmt.Sprintf("%s/%s/command/%s", TopicPrefix, lockID, actuator)
}

// SystemStatus returns the system status topic used for online/offline and LWT.
//
// Example: doorlock/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching every event of a lock.
//
// Pattern: doorlock/door-001/event/+/+
func (Topics) AllEvents(lockID string) string {
	return fmt.Sprintf("%s/%s/event/+/+", TopicPrefix, lockID)
}

// AllNodeModes returns a pattern matching both nodes' mode topics.
//
// Pattern: doorlock/door-001/state/+/mode
func (Topics) AllNodeModes(lockID string) string {
	return fmt.Sprintf("%s/%s/state/+/mode", TopicPrefix, lockID)
}
