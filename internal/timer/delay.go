package timer

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// defaultPollInterval is how often Seconds re-checks the elapsed flag.
const defaultPollInterval = 5 * time.Millisecond

// Delayer implements a blocking delay in whole seconds on top of a Timer.
//
// The timer callback counts ticks towards a target and raises a single
// "elapsed" flag when the target is reached; Seconds polls that flag. The
// flag is the only state shared between the tick goroutine and the caller.
//
// Only one delay may be in progress at a time.
type Delayer struct {
	timer Timer
	poll  time.Duration

	// mu serialises delays; the hardware timer can only time one at once.
	mu sync.Mutex

	target  atomic.Int64
	ticks   atomic.Int64
	elapsed atomic.Bool
}

// NewDelayer wires itself as t's callback and leaves t stopped and reset.
func NewDelayer(t Timer) *Delayer {
	d := &Delayer{
		timer: t,
		poll:  defaultPollInterval,
	}
	t.SetCallback(d.tick)
	t.Stop()
	t.Reset()
	return d
}

// SetPollInterval overrides how often the elapsed flag is checked.
func (d *Delayer) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		d.poll = interval
	}
}

// TicksFor returns the number of timer ticks needed for seconds, rounded to
// the nearest tick so that 0.99 ticks still waits one tick.
func (d *Delayer) TicksFor(seconds int) int64 {
	if seconds <= 0 {
		return 0
	}
	period := d.timer.Period().Seconds()
	if period <= 0 {
		return 0
	}
	return int64(math.Round(float64(seconds) / period))
}

// Seconds blocks for the given number of seconds as measured in timer ticks.
//
// Parameters:
//   - ctx: Cancels the wait; the timer is stopped either way
//   - seconds: Delay length; zero or negative returns immediately
//
// Returns:
//   - error: ctx.Err() if cancelled before the delay elapsed
func (d *Delayer) Seconds(ctx context.Context, seconds int) error {
	ticks := d.TicksFor(seconds)
	if ticks == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// The timer is stopped here, so no tick races this setup. The target
	// goes first so a tick never compares against the previous one.
	d.target.Store(ticks)
	d.ticks.Store(0)
	d.elapsed.Store(false)

	d.timer.Reset()
	d.timer.Start()
	defer func() {
		d.timer.Stop()
		d.elapsed.Store(false)
	}()

	if d.elapsed.Load() {
		return nil
	}

	poll := time.NewTicker(d.poll)
	defer poll.Stop()

	for !d.elapsed.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
		}
	}
	return nil
}

// tick is the timer callback.
func (d *Delayer) tick() {
	if d.elapsed.Load() {
		return
	}
	if d.ticks.Add(1) >= d.target.Load() {
		d.ticks.Store(0)
		d.elapsed.Store(true)
	}
}
