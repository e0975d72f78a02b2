package actuator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/mqtt"
)

// Actuator names used in command topics.
const (
	NameMotor  = "motor"
	NameBuzzer = "buzzer"
)

// Publisher sends one non-retained message. *mqtt.Client satisfies it.
type Publisher interface {
	PublishEvent(topic string, payload []byte) error
}

// motorCommand is the payload published for each motor command.
type motorCommand struct {
	State string    `json:"state"`
	At    time.Time `json:"at"`
}

// buzzerCommand is the payload published for each buzzer command.
type buzzerCommand struct {
	On bool      `json:"on"`
	At time.Time `json:"at"`
}

// MQTTMotor publishes motor commands to doorlock/{lock}/command/motor.
type MQTTMotor struct {
	pub   Publisher
	topic string
}

// NewMQTTMotor creates a motor driver for the given lock.
func NewMQTTMotor(pub Publisher, lockID string) *MQTTMotor {
	return &MQTTMotor{pub: pub, topic: mqtt.Topics{}.ActuatorCommand(lockID, NameMotor)}
}

// Rotate publishes the commanded state.
func (m *MQTTMotor) Rotate(ctx context.Context, state MotorState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return publishJSON(m.pub, m.topic, motorCommand{State: state.String(), At: time.Now().UTC()})
}

// MQTTBuzzer publishes buzzer commands to doorlock/{lock}/command/buzzer.
type MQTTBuzzer struct {
	pub   Publisher
	topic string
}

// NewMQTTBuzzer creates a buzzer driver for the given lock.
func NewMQTTBuzzer(pub Publisher, lockID string) *MQTTBuzzer {
	return &MQTTBuzzer{pub: pub, topic: mqtt.Topics{}.ActuatorCommand(lockID, NameBuzzer)}
}

// On publishes a buzzer-on command.
func (b *MQTTBuzzer) On(ctx context.Context) error {
	return b.set(ctx, true)
}

// Off publishes a buzzer-off command.
func (b *MQTTBuzzer) Off(ctx context.Context) error {
	return b.set(ctx, false)
}

func (b *MQTTBuzzer) set(ctx context.Context, on bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return publishJSON(b.pub, b.topic, buzzerCommand{On: on, At: time.Now().UTC()})
}

func publishJSON(pub Publisher, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s command: %w", topic, err)
	}
	if err := pub.PublishEvent(topic, payload); err != nil {
		return fmt.Errorf("publishing %s command: %w", topic, err)
	}
	return nil
}
