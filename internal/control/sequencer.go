package control

import (
	"context"
	"fmt"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/actuator"
)

// Delay blocks for a whole number of seconds. *timer.Delayer satisfies it.
type Delay interface {
	Seconds(ctx context.Context, seconds int) error
}

// DoorTiming holds the phase durations of the door and alarm sequences, in
// seconds.
type DoorTiming struct {
	Open  int
	Hold  int
	Close int
	Alarm int
}

// DefaultDoorTiming returns the factory timing: 15 s open, 3 s hold,
// 15 s close and a 60 s alarm.
func DefaultDoorTiming() DoorTiming {
	return DoorTiming{Open: 15, Hold: 3, Close: 15, Alarm: 60}
}

// Sequencer runs the timed actuator sequences of the back node.
//
// Actuator command failures are logged and the sequence carries on, so the
// hooks always run. Delay failures (context cancellation) abort the
// sequence after a best-effort attempt to leave the outputs idle.
type Sequencer struct {
	motor  actuator.Motor
	buzzer actuator.Buzzer
	delay  Delay
	timing DoorTiming
	logger Logger
}

// NewSequencer creates a sequencer for the given outputs and timing.
func NewSequencer(motor actuator.Motor, buzzer actuator.Buzzer, delay Delay, timing DoorTiming) *Sequencer {
	return &Sequencer{
		motor:  motor,
		buzzer: buzzer,
		delay:  delay,
		timing: timing,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the sequencer.
func (s *Sequencer) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Timing returns the configured phase durations.
func (s *Sequencer) Timing() DoorTiming {
	return s.timing
}

// Unlock opens the door, holds it, and closes it again.
//
// Sequence:
//  1. motor forward for Open seconds
//  2. motor stopped for Hold seconds
//  3. opened hook (the back node sends the first Sync here)
//  4. motor reverse for Close seconds
//  5. motor stopped
//  6. closed hook (the back node sends the second Sync here)
//
// Parameters:
//   - ctx: Cancels the sequence between phases
//   - opened: Called once the open and hold phases are over
//   - closed: Called once the door is closed
//
// Returns:
//   - error: A delay or hook error; actuator errors are only logged
func (s *Sequencer) Unlock(ctx context.Context, opened, closed func(context.Context) error) error {
	steps := []struct {
		state   actuator.MotorState
		seconds int
		hook    func(context.Context) error
	}{
		{actuator.Forward, s.timing.Open, nil},
		{actuator.Stop, s.timing.Hold, opened},
		{actuator.Reverse, s.timing.Close, nil},
		{actuator.Stop, 0, closed},
	}

	for _, step := range steps {
		s.rotate(ctx, step.state)
		if err := s.delay.Seconds(ctx, step.seconds); err != nil {
			s.rotate(context.WithoutCancel(ctx), actuator.Stop)
			return fmt.Errorf("door sequence: %w", err)
		}
		if step.hook != nil {
			if err := step.hook(ctx); err != nil {
				s.rotate(context.WithoutCancel(ctx), actuator.Stop)
				return err
			}
		}
	}
	return nil
}

// Alarm sounds the buzzer for Alarm seconds.
func (s *Sequencer) Alarm(ctx context.Context) error {
	if err := s.buzzer.On(ctx); err != nil {
		s.logger.Warn("buzzer on failed", "error", err)
	}

	delayErr := s.delay.Seconds(ctx, s.timing.Alarm)

	offCtx := ctx
	if delayErr != nil {
		offCtx = context.WithoutCancel(ctx)
	}
	if err := s.buzzer.Off(offCtx); err != nil {
		s.logger.Warn("buzzer off failed", "error", err)
	}

	if delayErr != nil {
		return fmt.Errorf("alarm sequence: %w", delayErr)
	}
	return nil
}

func (s *Sequencer) rotate(ctx context.Context, state actuator.MotorState) {
	if err := s.motor.Rotate(ctx, state); err != nil {
		s.logger.Warn("motor command failed", "state", state.String(), "error", err)
	}
}
