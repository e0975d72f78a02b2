package telemetry

import (
	"sync"
	"sync/atomic"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// DefaultQueueSize is the Async buffer used when none is given.
const DefaultQueueSize = 64

// Async forwards events to an observer from its own goroutine.
//
// Observe never blocks: if the queue is full the event is dropped.
// Close drains what is queued and waits for the worker to finish.
type Async struct {
	next   protocol.Observer
	name   string
	logger Logger

	queue   chan protocol.Event
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewAsync starts a worker that delivers queued events to next.
//
// Parameters:
//   - name: Sink name used in log messages
//   - next: Receiver of the events
//   - size: Queue capacity; DefaultQueueSize if not positive
func NewAsync(name string, next protocol.Observer, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		next:   next,
		name:   name,
		logger: noopLogger{},
		queue:  make(chan protocol.Event, size),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// SetLogger sets the logger used to report drops.
func (a *Async) SetLogger(logger Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Observe queues e for delivery.
func (a *Async) Observe(e protocol.Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}

	select {
	case a.queue <- e:
	default:
		n := a.dropped.Add(1)
		a.logger.Warn("telemetry queue full, event dropped", "sink", a.name, "kind", string(e.Kind), "dropped", n)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting events, delivers the queued ones and waits.
func (a *Async) Close() {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()
	})
	<-a.done
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		a.next.Observe(e)
	}
}
