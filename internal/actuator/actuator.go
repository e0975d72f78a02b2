package actuator

import (
	"context"
	"fmt"
)

// MotorState is the commanded direction of the door motor.
type MotorState int

// Motor states.
const (
	Stop MotorState = iota
	Forward
	Reverse
)

// String returns the state name used in logs and command payloads.
func (s MotorState) String() string {
	switch s {
	case Stop:
		return "stop"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Motor turns the door bolt motor.
type Motor interface {
	Rotate(ctx context.Context, state MotorState) error
}

// Buzzer is the audible alarm.
type Buzzer interface {
	On(ctx context.Context) error
	Off(ctx context.Context) error
}

// Logger is the logging surface the log drivers need.
type Logger interface {
	Info(msg string, args ...any)
}
