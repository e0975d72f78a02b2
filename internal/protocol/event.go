package protocol

import "time"

// Node roles used in events, logs and topics.
const (
	RoleFront = "front"
	RoleBack  = "back"
)

// EventKind classifies a node event.
type EventKind string

// Event kinds emitted by the node state machines.
const (
	EventModeChanged  EventKind = "mode_changed"
	EventEnrollment   EventKind = "enrollment"
	EventAuthAttempt  EventKind = "auth_attempt"
	EventDoorOpened   EventKind = "door_opened"
	EventDoorClosed   EventKind = "door_closed"
	EventAlarmStarted EventKind = "alarm_started"
	EventAlarmCleared EventKind = "alarm_cleared"
	EventStoreError   EventKind = "store_error"
)

// Event describes something a node did. Events never carry password bytes.
type Event struct {
	Kind    EventKind `json:"kind"`
	Node    string    `json:"node"`
	Mode    Mode      `json:"mode"`
	Attempt int       `json:"attempt,omitempty"`
	Success bool      `json:"success"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Observer receives node events. Observe is called on the node's own
// goroutine and must not block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// NopObserver discards every event.
type NopObserver struct{}

// Observe does nothing.
func (NopObserver) Observe(Event) {}
