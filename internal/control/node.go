package control

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/eeprom"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// PasswordAddress is where the enrolled password lives in the persistent store.
const PasswordAddress uint16 = 0x0320

// Node is the back (control) node state machine.
//
// Thread Safety:
//   - Run and Step must be called from a single goroutine.
//   - Mode and Enrolled may be called concurrently (status API).
type Node struct {
	ch    protocol.Channel
	store eeprom.Store
	seq   *Sequencer

	logger   Logger
	observer protocol.Observer
	now      func() time.Time

	mu       sync.RWMutex
	mode     protocol.Mode
	password protocol.Password
}

// New creates a back node in FirstBoot mode.
//
// Parameters:
//   - ch: Link to the front node
//   - store: Persistent store for the enrolled password
//   - seq: Door and alarm sequencer
//
// Returns:
//   - *Node: Node ready for Run
func New(ch protocol.Channel, store eeprom.Store, seq *Sequencer) *Node {
	return &Node{
		ch:       ch,
		store:    store,
		seq:      seq,
		logger:   noopLogger{},
		observer: protocol.NopObserver{},
		now:      time.Now,
		mode:     protocol.ModeFirstBoot,
	}
}

// SetLogger sets the logger for the node.
func (n *Node) SetLogger(logger Logger) {
	if logger != nil {
		n.logger = logger
	}
}

// SetObserver sets the receiver of node events.
func (n *Node) SetObserver(o protocol.Observer) {
	if o != nil {
		n.observer = o
	}
}

// Mode returns the current mode.
func (n *Node) Mode() protocol.Mode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mode
}

// Enrolled reports whether a password is held in memory.
func (n *Node) Enrolled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return !n.password.IsZero()
}

// LoadPassword reads a previously enrolled password from the store.
//
// An erased store (every cell ErasedValue) is not an error; it returns
// false. The mode is not touched: the node still starts in FirstBoot.
//
// Returns:
//   - bool: true if a password was loaded
//   - error: If the store could not be read
func (n *Node) LoadPassword(ctx context.Context) (bool, error) {
	data, err := eeprom.ReadString(ctx, n.store, PasswordAddress, protocol.PasswordLength)
	if err != nil {
		return false, fmt.Errorf("loading password: %w", err)
	}
	if bytes.Count(data, []byte{eeprom.ErasedValue}) == len(data) {
		return false, nil
	}

	p := protocol.PasswordFromFrame(append(data, protocol.Terminator))
	if !p.Complete() {
		n.logger.Warn("stored password is incomplete, ignoring it")
		return false, nil
	}

	n.mu.Lock()
	n.password = p
	n.mu.Unlock()
	return true, nil
}

// Run executes Step until it fails. It returns ctx.Err() after cancellation
// and the channel error if the link closes.
func (n *Node) Run(ctx context.Context) error {
	n.logger.Info("back node started", "mode", n.Mode().String())
	for {
		if err := n.Step(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return ctxErr
			}
			return err
		}
	}
}

// Step runs the handler for the current mode once and adopts the mode it
// returns.
func (n *Node) Step(ctx context.Context) error {
	var (
		next protocol.Mode
		err  error
	)

	switch mode := n.Mode(); mode {
	case protocol.ModeFirstBoot:
		next, err = n.firstBoot(ctx)
	case protocol.ModeLocked:
		next, err = n.locked(ctx)
	case protocol.ModeMainMenu:
		next, err = n.mainMenu(ctx)
	case protocol.ModeAlarm:
		next, err = n.alarm(ctx)
	default:
		return fmt.Errorf("%w: %s", protocol.ErrUnknownMode, mode)
	}
	if err != nil {
		return err
	}

	n.setMode(next)
	return nil
}

// firstBoot receives two captures and enrolls the first when they match.
// Incomplete captures never match, so a short password is never stored.
func (n *Node) firstBoot(ctx context.Context) (protocol.Mode, error) {
	first, err := protocol.ReceiveSyncedPassword(ctx, n.ch)
	if err != nil {
		return 0, err
	}
	second, err := protocol.ReceiveSyncedPassword(ctx, n.ch)
	if err != nil {
		return 0, err
	}

	if !first.Matches(second) {
		n.logger.Info("enrollment rejected: captures differ or are incomplete")
		n.emit(protocol.Event{Kind: protocol.EventEnrollment, Mode: protocol.ModeFirstBoot})
		if err := protocol.SendBytes(ctx, n.ch, protocol.Sync, protocol.StatusError); err != nil {
			return 0, fmt.Errorf("sending enrollment result: %w", err)
		}
		return protocol.ModeFirstBoot, nil
	}

	if err := protocol.SendBytes(ctx, n.ch, protocol.Sync, protocol.StatusSuccess); err != nil {
		return 0, fmt.Errorf("sending enrollment result: %w", err)
	}
	n.enroll(ctx, first)
	return protocol.ModeMainMenu, nil
}

// enroll adopts p as the password and persists it. A store failure is
// logged and reported as an event; the in-memory password is kept.
func (n *Node) enroll(ctx context.Context, p protocol.Password) {
	n.mu.Lock()
	n.password = p
	n.mu.Unlock()

	n.logger.Info("password enrolled", "length", protocol.PasswordLength)
	n.emit(protocol.Event{Kind: protocol.EventEnrollment, Mode: protocol.ModeMainMenu, Success: true})

	if err := eeprom.WriteString(ctx, n.store, PasswordAddress, p.Effective()); err != nil {
		n.logger.Warn("persisting password failed", "address", fmt.Sprintf("0x%04X", PasswordAddress), "error", err)
		n.emit(protocol.Event{Kind: protocol.EventStoreError, Mode: protocol.ModeMainMenu, Detail: err.Error()})
	}
}

func (n *Node) locked(ctx context.Context) (protocol.Mode, error) {
	if _, err := n.authenticate(ctx, protocol.ModeMainMenu); err != nil {
		return 0, err
	}
	return n.Mode(), nil
}

// mainMenu serves one front-node request.
func (n *Node) mainMenu(ctx context.Context) (protocol.Mode, error) {
	if err := protocol.WaitSync(ctx, n.ch); err != nil {
		return 0, err
	}
	request, err := n.ch.ReceiveByte(ctx)
	if err != nil {
		return 0, fmt.Errorf("receiving request: %w", err)
	}

	if request != protocol.OpenDoorRequest {
		// Anything but an open request is a change-password request.
		n.logger.Debug("change password requested", "request", fmt.Sprintf("0x%02X", request))
		if _, err := n.authenticate(ctx, protocol.ModeFirstBoot); err != nil {
			return 0, err
		}
		return n.Mode(), nil
	}

	n.logger.Debug("open door requested")
	ok, err := n.authenticate(ctx, protocol.ModeMainMenu)
	if err != nil {
		return 0, err
	}
	if !ok {
		return n.Mode(), nil
	}

	err = n.seq.Unlock(ctx,
		func(ctx context.Context) error {
			n.emit(protocol.Event{Kind: protocol.EventDoorOpened, Mode: protocol.ModeMainMenu, Success: true})
			return n.sendSync(ctx)
		},
		func(ctx context.Context) error {
			n.emit(protocol.Event{Kind: protocol.EventDoorClosed, Mode: protocol.ModeMainMenu, Success: true})
			return n.sendSync(ctx)
		},
	)
	if err != nil {
		return 0, err
	}
	return n.Mode(), nil
}

// alarm sounds the buzzer and then returns both nodes to MainMenu.
func (n *Node) alarm(ctx context.Context) (protocol.Mode, error) {
	n.logger.Warn("alarm raised")
	n.emit(protocol.Event{Kind: protocol.EventAlarmStarted, Mode: protocol.ModeAlarm})

	if err := n.seq.Alarm(ctx); err != nil {
		return 0, err
	}

	n.emit(protocol.Event{Kind: protocol.EventAlarmCleared, Mode: protocol.ModeMainMenu, Success: true})
	if err := protocol.SendBytes(ctx, n.ch, protocol.Sync, byte(protocol.ModeMainMenu)); err != nil {
		return 0, fmt.Errorf("sending alarm release: %w", err)
	}
	return protocol.ModeMainMenu, nil
}

// authenticate runs the bounded retry policy.
//
// Every attempt waits for Sync and a capture. A match moves to target and
// answers Success plus the target mode. A miss answers Error plus Locked,
// except the last, which answers Error plus Alarm. There are exactly
// protocol.MaxTries attempts.
//
// Returns:
//   - bool: true if an attempt matched
//   - error: Channel errors only
func (n *Node) authenticate(ctx context.Context, target protocol.Mode) (bool, error) {
	n.mu.RLock()
	stored := n.password
	n.mu.RUnlock()

	for attempt := 1; attempt <= protocol.MaxTries; attempt++ {
		candidate, err := protocol.ReceiveSyncedPassword(ctx, n.ch)
		if err != nil {
			return false, err
		}

		ok := candidate.Matches(stored)
		n.logger.Info("password attempt", "attempt", attempt, "success", ok)

		var next protocol.Mode
		status := protocol.StatusError
		switch {
		case ok:
			next, status = target, protocol.StatusSuccess
		case attempt < protocol.MaxTries:
			next = protocol.ModeLocked
		default:
			next = protocol.ModeAlarm
		}

		n.setMode(next)
		n.emit(protocol.Event{Kind: protocol.EventAuthAttempt, Mode: next, Attempt: attempt, Success: ok})

		if err := protocol.SendBytes(ctx, n.ch, status, byte(next)); err != nil {
			return false, fmt.Errorf("sending attempt result: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (n *Node) sendSync(ctx context.Context) error {
	if err := n.ch.SendByte(ctx, protocol.Sync); err != nil {
		return fmt.Errorf("sending sync: %w", err)
	}
	return nil
}

// setMode records a new mode and reports transitions.
func (n *Node) setMode(m protocol.Mode) {
	n.mu.Lock()
	prev := n.mode
	n.mode = m
	n.mu.Unlock()

	if prev != m {
		n.logger.Info("mode changed", "from", prev.String(), "to", m.String())
		n.emit(protocol.Event{Kind: protocol.EventModeChanged, Mode: m})
	}
}

func (n *Node) emit(e protocol.Event) {
	e.Node = protocol.RoleBack
	if e.At.IsZero() {
		e.At = n.now().UTC()
	}
	n.observer.Observe(e)
}
