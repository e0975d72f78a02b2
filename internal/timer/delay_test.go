package timer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDelayer_TicksFor(t *testing.T) {
	tests := []struct {
		name    string
		period  time.Duration
		seconds int
		want    int64
	}{
		{name: "one second period", period: time.Second, seconds: 15, want: 15},
		{name: "half second period", period: 500 * time.Millisecond, seconds: 3, want: 6},
		{name: "rounds up near-whole", period: 1001 * time.Millisecond, seconds: 60, want: 60},
		{name: "two second period rounds", period: 2 * time.Second, seconds: 3, want: 2},
		{name: "zero seconds", period: time.Second, seconds: 0, want: 0},
		{name: "negative seconds", period: time.Second, seconds: -5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDelayer(NewFake(tt.period))
			if got := d.TicksFor(tt.seconds); got != tt.want {
				t.Errorf("TicksFor(%d) = %d, want %d", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestNewDelayer_LeavesTimerStoppedAndReset(t *testing.T) {
	fake := NewFake(time.Second)
	fake.Start()

	NewDelayer(fake)

	if fake.Running() {
		t.Error("timer should be stopped after NewDelayer")
	}
	if _, _, resets := fake.Counts(); resets != 1 {
		t.Errorf("resets = %d, want 1", resets)
	}
}

func TestDelayer_Seconds_WaitsForExactTickCount(t *testing.T) {
	fake := NewFake(time.Second)
	d := NewDelayer(fake)
	d.SetPollInterval(time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- d.Seconds(context.Background(), 3) }()

	waitRunning(t, fake)

	fake.Fire(2)
	select {
	case err := <-done:
		t.Fatalf("Seconds() returned after 2 of 3 ticks (err=%v)", err)
	case <-time.After(20 * time.Millisecond):
	}

	fake.Fire(1)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Seconds() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Seconds() did not return after the third tick")
	}

	if fake.Running() {
		t.Error("timer should be stopped after the delay")
	}
	if d.elapsed.Load() {
		t.Error("elapsed flag should be cleared after the delay")
	}
}

func TestDelayer_Seconds_Cancelled(t *testing.T) {
	fake := NewFake(time.Second)
	d := NewDelayer(fake)
	d.SetPollInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Seconds(ctx, 60) }()

	waitRunning(t, fake)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Seconds() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Seconds() ignored cancellation")
	}
	if fake.Running() {
		t.Error("timer should be stopped after cancellation")
	}
}

func TestDelayer_Seconds_AutoFake(t *testing.T) {
	fake := NewAutoFake(time.Second)
	d := NewDelayer(fake)
	d.SetPollInterval(time.Millisecond)

	if err := d.Seconds(context.Background(), 15); err != nil {
		t.Fatalf("Seconds() error = %v", err)
	}
	if fired := fake.Fired(); fired < 15 {
		t.Errorf("fired = %d ticks, want at least 15", fired)
	}
}

func TestDelayer_Seconds_ZeroDoesNotStartTimer(t *testing.T) {
	fake := NewFake(time.Second)
	d := NewDelayer(fake)

	if err := d.Seconds(context.Background(), 0); err != nil {
		t.Fatalf("Seconds(0) error = %v", err)
	}
	if starts, _, _ := fake.Counts(); starts != 0 {
		t.Errorf("starts = %d, want 0", starts)
	}
}

func TestTickerTimer_StartStop(t *testing.T) {
	tt := NewTickerTimer(5 * time.Millisecond)
	ticks := make(chan struct{}, 16)
	tt.SetCallback(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	tt.Start()
	tt.Start() // no-op

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick within one second")
	}

	tt.Stop()
	tt.Stop() // no-op
	tt.Reset()
}

func TestTickerTimer_StopWaitsForCallback(t *testing.T) {
	tt := NewTickerTimer(time.Millisecond)
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	tt.SetCallback(func() {
		if calls.Add(1) == 1 {
			entered <- struct{}{}
			<-release
		}
	})

	tt.Start()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("no tick within one second")
	}

	stopped := make(chan struct{})
	go func() {
		tt.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop() returned while the callback was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop() did not return after the callback finished")
	}

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if got := calls.Load(); got != after {
		t.Errorf("callback ran %d more times after Stop()", got-after)
	}
}

func TestDelayer_Seconds_BackToBack(t *testing.T) {
	d := NewDelayer(NewTickerTimer(time.Millisecond))

	for i := range 2 {
		start := time.Now()
		if err := d.Seconds(context.Background(), 1); err != nil {
			t.Fatalf("delay %d: Seconds() error = %v", i, err)
		}
		if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
			t.Fatalf("delay %d returned after %v, want about 1s", i, elapsed)
		}
	}
}

func TestNewTickerTimer_DefaultPeriod(t *testing.T) {
	if got := NewTickerTimer(0).Period(); got != DefaultPeriod {
		t.Errorf("Period() = %v, want %v", got, DefaultPeriod)
	}
}

func waitRunning(t *testing.T, fake *Fake) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !fake.Running() {
		if time.Now().After(deadline) {
			t.Fatal("timer never started")
		}
		time.Sleep(time.Millisecond)
	}
}
