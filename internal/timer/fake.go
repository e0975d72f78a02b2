package timer

import (
	"runtime"
	"sync"
	"time"
)

// Fake is a Timer whose ticks are fired by the test.
//
// In manual mode ticks happen only through Fire. In auto mode a goroutine
// fires ticks back to back while the timer is running, so delays complete
// almost immediately while still going through the full tick path.
type Fake struct {
	period time.Duration
	auto   bool

	mu       sync.Mutex
	callback func()
	running  bool
	starts   int
	stops    int
	resets   int
	fired    int
	stopAuto chan struct{}
	autoDone chan struct{}
}

// NewFake returns a manual fake timer.
func NewFake(period time.Duration) *Fake {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Fake{period: period}
}

// NewAutoFake returns a fake timer that ticks continuously while running.
func NewAutoFake(period time.Duration) *Fake {
	f := NewFake(period)
	f.auto = true
	return f
}

// SetCallback registers fn.
func (f *Fake) SetCallback(fn func()) {
	f.mu.Lock()
	f.callback = fn
	f.mu.Unlock()
}

// Start marks the timer running.
func (f *Fake) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return
	}
	f.running = true
	f.starts++
	if f.auto {
		f.stopAuto = make(chan struct{})
		f.autoDone = make(chan struct{})
		go f.autoLoop(f.stopAuto, f.autoDone)
	}
}

// Stop marks the timer stopped. In auto mode it waits for the tick
// goroutine to exit.
func (f *Fake) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	f.stops++
	done := f.autoDone
	if f.stopAuto != nil {
		close(f.stopAuto)
		f.stopAuto, f.autoDone = nil, nil
	}
	f.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Reset counts reset calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.resets++
	f.mu.Unlock()
}

// Period returns the configured period.
func (f *Fake) Period() time.Duration {
	return f.period
}

// Fire delivers n ticks if the timer is running and reports how many were
// delivered.
func (f *Fake) Fire(n int) int {
	delivered := 0
	for range n {
		if !f.fireOnce() {
			break
		}
		delivered++
	}
	return delivered
}

// Running reports whether the timer is started.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Fired returns the total number of ticks delivered.
func (f *Fake) Fired() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired
}

// Counts returns how many times Start, Stop and Reset were called.
func (f *Fake) Counts() (starts, stops, resets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.resets
}

func (f *Fake) fireOnce() bool {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return false
	}
	fn := f.callback
	f.fired++
	f.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

func (f *Fake) autoLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		f.fireOnce()
		runtime.Gosched()
	}
}
