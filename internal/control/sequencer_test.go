package control

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/actuator"
)

// recordDelay records every requested delay and returns immediately.
// failAt makes the n-th call (1-based) return err.
type recordDelay struct {
	seconds []int
	failAt  int
	err     error
}

func (d *recordDelay) Seconds(ctx context.Context, seconds int) error {
	d.seconds = append(d.seconds, seconds)
	if d.failAt > 0 && len(d.seconds) == d.failAt {
		return d.err
	}
	return ctx.Err()
}

type failingMotor struct{ calls int }

func (m *failingMotor) Rotate(context.Context, actuator.MotorState) error {
	m.calls++
	return errors.New("motor offline")
}

func values(cmds []actuator.Command) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Actuator+":"+c.Value)
	}
	return out
}

func TestSequencerUnlock(t *testing.T) {
	rec := actuator.NewRecorder()
	delay := &recordDelay{}
	seq := NewSequencer(rec, rec, delay, DefaultDoorTiming())

	var hooks []string
	err := seq.Unlock(context.Background(),
		func(context.Context) error {
			hooks = append(hooks, "opened")
			if got := values(rec.Commands()); len(got) != 2 {
				t.Errorf("opened hook ran after %v, want after forward and stop", got)
			}
			return nil
		},
		func(context.Context) error {
			hooks = append(hooks, "closed")
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	wantCmds := []string{"motor:forward", "motor:stop", "motor:reverse", "motor:stop"}
	if got := values(rec.Commands()); !slices.Equal(got, wantCmds) {
		t.Errorf("commands = %v, want %v", got, wantCmds)
	}
	if want := []int{15, 3, 15, 0}; !slices.Equal(delay.seconds, want) {
		t.Errorf("delays = %v, want %v", delay.seconds, want)
	}
	if want := []string{"opened", "closed"}; !slices.Equal(hooks, want) {
		t.Errorf("hooks = %v, want %v", hooks, want)
	}
}

func TestSequencerUnlockCancelledStopsMotor(t *testing.T) {
	rec := actuator.NewRecorder()
	delay := &recordDelay{failAt: 3, err: context.Canceled}
	seq := NewSequencer(rec, rec, delay, DefaultDoorTiming())

	closedCalled := false
	err := seq.Unlock(context.Background(),
		func(context.Context) error { return nil },
		func(context.Context) error { closedCalled = true; return nil },
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Unlock() error = %v, want context.Canceled", err)
	}
	if closedCalled {
		t.Error("closed hook ran after cancellation")
	}

	want := []string{"motor:forward", "motor:stop", "motor:reverse", "motor:stop"}
	if got := values(rec.Commands()); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestSequencerUnlockHookError(t *testing.T) {
	rec := actuator.NewRecorder()
	seq := NewSequencer(rec, rec, &recordDelay{}, DefaultDoorTiming())
	hookErr := errors.New("link down")

	err := seq.Unlock(context.Background(),
		func(context.Context) error { return hookErr },
		func(context.Context) error { return nil },
	)
	if !errors.Is(err, hookErr) {
		t.Fatalf("Unlock() error = %v, want %v", err, hookErr)
	}
	want := []string{"motor:forward", "motor:stop", "motor:stop"}
	if got := values(rec.Commands()); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestSequencerActuatorErrorsDoNotAbort(t *testing.T) {
	motor := &failingMotor{}
	rec := actuator.NewRecorder()
	seq := NewSequencer(motor, rec, &recordDelay{}, DefaultDoorTiming())

	hooks := 0
	hook := func(context.Context) error { hooks++; return nil }
	if err := seq.Unlock(context.Background(), hook, hook); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if motor.calls != 4 {
		t.Errorf("motor calls = %d, want 4", motor.calls)
	}
	if hooks != 2 {
		t.Errorf("hooks = %d, want 2", hooks)
	}
}

func TestSequencerAlarm(t *testing.T) {
	tests := []struct {
		name    string
		delay   *recordDelay
		wantErr bool
	}{
		{name: "full duration", delay: &recordDelay{}},
		{name: "cancelled", delay: &recordDelay{failAt: 1, err: context.Canceled}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := actuator.NewRecorder()
			seq := NewSequencer(rec, rec, tt.delay, DefaultDoorTiming())

			err := seq.Alarm(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Alarm() error = %v, wantErr %v", err, tt.wantErr)
			}
			want := []string{"buzzer:on", "buzzer:off"}
			if got := values(rec.Commands()); !slices.Equal(got, want) {
				t.Errorf("commands = %v, want %v", got, want)
			}
			if want := []int{60}; !slices.Equal(tt.delay.seconds, want) {
				t.Errorf("delays = %v, want %v", tt.delay.seconds, want)
			}
		})
	}
}

func TestSequencerTiming(t *testing.T) {
	timing := DoorTiming{Open: 1, Hold: 2, Close: 3, Alarm: 4}
	seq := NewSequencer(actuator.NewRecorder(), actuator.NewRecorder(), &recordDelay{}, timing)
	if seq.Timing() != timing {
		t.Errorf("Timing() = %+v, want %+v", seq.Timing(), timing)
	}
}
