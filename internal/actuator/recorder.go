package actuator

import (
	"context"
	"sync"
)

// Command is one recorded actuator command.
type Command struct {
	Actuator string
	Value    string
}

// Recorder is a Motor and Buzzer that records every command in order.
// The sim role and tests use it to observe door sequences.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
	onCmd    func(Command)
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnCommand registers fn to be called after each recorded command.
func (r *Recorder) OnCommand(fn func(Command)) {
	r.mu.Lock()
	r.onCmd = fn
	r.mu.Unlock()
}

// Rotate records a motor command.
func (r *Recorder) Rotate(ctx context.Context, state MotorState) error {
	return r.record(ctx, Command{Actuator: NameMotor, Value: state.String()})
}

// On records a buzzer-on command.
func (r *Recorder) On(ctx context.Context) error {
	return r.record(ctx, Command{Actuator: NameBuzzer, Value: "on"})
}

// Off records a buzzer-off command.
func (r *Recorder) Off(ctx context.Context) error {
	return r.record(ctx, Command{Actuator: NameBuzzer, Value: "off"})
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *Recorder) record(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.commands = append(r.commands, c)
	fn := r.onCmd
	r.mu.Unlock()
	if fn != nil {
		fn(c)
	}
	return nil
}
