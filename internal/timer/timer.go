package timer

import (
	"sync"
	"time"
)

// DefaultPeriod is one compare match per second, as configured on the
// control board (8 MHz / 1024 prescaler, compare value 7812).
const DefaultPeriod = time.Second

// Timer is a periodic tick source with a single registered callback.
//
// The callback runs on the timer's own goroutine, never on the caller's.
type Timer interface {
	// SetCallback registers fn to be invoked once per elapsed period.
	SetCallback(fn func())
	// Start resumes ticking. Starting a running timer is a no-op.
	Start()
	// Stop pauses ticking. Once it returns the callback is not running and
	// does not run again before the next Start. Stopping a stopped timer is
	// a no-op.
	Stop()
	// Reset restarts the current period from zero.
	Reset()
	// Period returns the fixed tick period.
	Period() time.Duration
}

// TickerTimer is a Timer backed by time.Ticker.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type TickerTimer struct {
	period time.Duration

	mu       sync.Mutex
	callback func()
	ticker   *time.Ticker
	stop     chan struct{}
	done     chan struct{}
}

// NewTickerTimer creates a stopped timer with the given period.
// A non-positive period falls back to DefaultPeriod.
func NewTickerTimer(period time.Duration) *TickerTimer {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &TickerTimer{period: period}
}

// SetCallback registers fn.
func (t *TickerTimer) SetCallback(fn func()) {
	t.mu.Lock()
	t.callback = fn
	t.mu.Unlock()
}

// Start begins ticking on a background goroutine.
func (t *TickerTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ticker != nil {
		return
	}
	t.ticker = time.NewTicker(t.period)
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.loop(t.ticker, t.stop, t.done)
}

// Stop halts the background goroutine and waits for an in-flight callback.
// It must not be called from the callback.
func (t *TickerTimer) Stop() {
	t.mu.Lock()
	if t.ticker == nil {
		t.mu.Unlock()
		return
	}
	t.ticker.Stop()
	close(t.stop)
	done := t.done
	t.ticker, t.stop, t.done = nil, nil, nil
	t.mu.Unlock()

	<-done
}

// Reset restarts the running period. A stopped timer starts from zero on
// its next Start anyway.
func (t *TickerTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ticker != nil {
		t.ticker.Reset(t.period)
	}
}

// Period returns the tick period.
func (t *TickerTimer) Period() time.Duration {
	return t.period
}

func (t *TickerTimer) loop(ticker *time.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and Stop can be ready together; Stop wins.
			select {
			case <-stop:
				return
			default:
			}
			t.mu.Lock()
			fn := t.callback
			t.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}
