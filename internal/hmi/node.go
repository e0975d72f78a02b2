package hmi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/panel"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// Main menu keys.
const (
	KeyOpenDoor       byte = '+'
	KeyChangePassword byte = '-'
)

// Timing holds the front node's user-interface pauses.
type Timing struct {
	// KeyDebounce follows every captured key and the menu selection.
	KeyDebounce time.Duration
	// PromptSettle follows the "Enter pass:" prompt before capture starts.
	PromptSettle time.Duration
}

// DefaultTiming returns the factory pauses: 400 ms debounce and a 300 ms
// prompt settle.
func DefaultTiming() Timing {
	return Timing{KeyDebounce: 400 * time.Millisecond, PromptSettle: 300 * time.Millisecond}
}

// Sleeper pauses the node loop.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

type wallSleeper struct{}

func (wallSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Node is the front (HMI) node state machine.
//
// Thread Safety:
//   - Run and Step must be called from a single goroutine.
//   - Mode may be called concurrently.
type Node struct {
	ch      protocol.Channel
	keypad  panel.Keypad
	display panel.Display

	timing   Timing
	sleeper  Sleeper
	logger   Logger
	observer protocol.Observer
	now      func() time.Time

	mu   sync.RWMutex
	mode protocol.Mode
}

// New creates a front node in FirstBoot mode.
//
// Parameters:
//   - ch: Link to the back node
//   - keypad: Source of key presses
//   - display: 2x16 text display
//
// Returns:
//   - *Node: Node ready for Run
func New(ch protocol.Channel, keypad panel.Keypad, display panel.Display) *Node {
	return &Node{
		ch:       ch,
		keypad:   keypad,
		display:  display,
		timing:   DefaultTiming(),
		sleeper:  wallSleeper{},
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

// SetTiming overrides the user-interface pauses.
func (n *Node) SetTiming(t Timing) {
	n.timing = t
}

// SetSleeper replaces the wall-clock sleeper.
func (n *Node) SetSleeper(s Sleeper) {
	if s != nil {
		n.sleeper = s
	}
}

// Mode returns the current mode.
func (n *Node) Mode() protocol.Mode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mode
}

// Run executes Step until it fails. It returns ctx.Err() after
// cancellation.
func (n *Node) Run(ctx context.Context) error {
	n.logger.Info("front node started", "mode", n.Mode().String())
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
		next, err = n.authenticate(ctx)
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

// firstBoot captures the new password twice and reads the enrollment result.
func (n *Node) firstBoot(ctx context.Context) (protocol.Mode, error) {
	for _, screen := range [][panel.Rows]string{screenEnroll, screenReenroll} {
		show(n.display, screen)
		if err := n.captureAndSend(ctx); err != nil {
			return 0, err
		}
	}

	if err := protocol.WaitSync(ctx, n.ch); err != nil {
		return 0, err
	}
	status, err := n.ch.ReceiveByte(ctx)
	if err != nil {
		return 0, fmt.Errorf("receiving enrollment result: %w", err)
	}

	ok := succeeded(status)
	n.logger.Info("enrollment result", "success", ok)
	if !ok {
		n.emit(protocol.Event{Kind: protocol.EventEnrollment, Mode: protocol.ModeFirstBoot})
		return protocol.ModeFirstBoot, nil
	}
	n.emit(protocol.Event{Kind: protocol.EventEnrollment, Mode: protocol.ModeMainMenu, Success: true})
	return protocol.ModeMainMenu, nil
}

// mainMenu waits for a menu key and runs the chosen request.
func (n *Node) mainMenu(ctx context.Context) (protocol.Mode, error) {
	show(n.display, screenMainMenu)

	var key byte
	for key != KeyOpenDoor && key != KeyChangePassword {
		k, err := n.keypad.ReadKey(ctx)
		if err != nil {
			return 0, fmt.Errorf("reading menu key: %w", err)
		}
		key = k
	}
	if err := n.sleeper.Sleep(ctx, n.timing.KeyDebounce); err != nil {
		return 0, err
	}

	if key == KeyChangePassword {
		n.logger.Debug("change password selected")
		if err := protocol.SendBytes(ctx, n.ch, protocol.Sync, protocol.ChangePasswordRequest); err != nil {
			return 0, fmt.Errorf("sending change password request: %w", err)
		}
		return n.authenticate(ctx)
	}

	n.logger.Debug("open door selected")
	if err := protocol.SendBytes(ctx, n.ch, protocol.Sync, protocol.OpenDoorRequest); err != nil {
		return 0, fmt.Errorf("sending open door request: %w", err)
	}
	mode, err := n.authenticate(ctx)
	if err != nil || mode == protocol.ModeAlarm {
		return mode, err
	}

	show(n.display, screenDoorUnlocking)
	if err := protocol.WaitSync(ctx, n.ch); err != nil {
		return 0, err
	}
	show(n.display, screenDoorLocking)
	if err := protocol.WaitSync(ctx, n.ch); err != nil {
		return 0, err
	}
	return mode, nil
}

// alarm shows the error banner until the back node sends Sync and the mode
// to resume in.
func (n *Node) alarm(ctx context.Context) (protocol.Mode, error) {
	n.display.Clear()
	n.display.WriteAt(0, 0, bannerAlarm)

	if err := protocol.WaitSync(ctx, n.ch); err != nil {
		return 0, err
	}
	b, err := n.ch.ReceiveByte(ctx)
	if err != nil {
		return 0, fmt.Errorf("receiving alarm release: %w", err)
	}
	return protocol.Mode(b), nil
}

// authenticate is the front drive-loop. It captures and submits passwords
// while the back node answers Error with a mode other than Alarm, adopting
// each reported mode, and returns the last one.
func (n *Node) authenticate(ctx context.Context) (protocol.Mode, error) {
	for attempt := 1; ; attempt++ {
		n.display.Clear()
		n.display.WriteAt(0, 0, promptPassword)
		n.display.MoveCursor(1, 0)
		if err := n.sleeper.Sleep(ctx, n.timing.PromptSettle); err != nil {
			return 0, err
		}

		if err := n.captureAndSend(ctx); err != nil {
			return 0, err
		}

		status, err := n.ch.ReceiveByte(ctx)
		if err != nil {
			return 0, fmt.Errorf("receiving attempt status: %w", err)
		}
		b, err := n.ch.ReceiveByte(ctx)
		if err != nil {
			return 0, fmt.Errorf("receiving attempt mode: %w", err)
		}
		mode := protocol.Mode(b)

		ok := succeeded(status)
		n.logger.Info("password attempt", "attempt", attempt, "success", ok, "mode", mode.String())
		n.setMode(mode)
		n.emit(protocol.Event{Kind: protocol.EventAuthAttempt, Mode: mode, Attempt: attempt, Success: ok})

		if ok || mode == protocol.ModeAlarm {
			return mode, nil
		}
	}
}

// succeeded reports whether a status byte from the back node is a success.
// Any value other than StatusError counts.
func succeeded(status byte) bool {
	return status != protocol.StatusError
}

// captureAndSend reads PasswordLength keys, echoing '*' for each, and
// submits them as Sync plus the framed password. The terminator key is
// ignored so a capture always carries PasswordLength characters.
func (n *Node) captureAndSend(ctx context.Context) error {
	keys := make([]byte, 0, protocol.FrameLength)
	for len(keys) < protocol.PasswordLength {
		k, err := n.keypad.ReadKey(ctx)
		if err != nil {
			return fmt.Errorf("reading password key: %w", err)
		}
		k = panel.TranslateKey(k)
		if k == protocol.Terminator {
			n.logger.Debug("terminator key ignored during capture")
			continue
		}
		keys = append(keys, k)
		n.display.Write(echoChar)
		if err := n.sleeper.Sleep(ctx, n.timing.KeyDebounce); err != nil {
			return err
		}
	}

	p := protocol.PasswordFromFrame(append(keys, protocol.Terminator))
	return protocol.SendSyncedPassword(ctx, n.ch, p)
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
	e.Node = protocol.RoleFront
	if e.At.IsZero() {
		e.At = n.now().UTC()
	}
	n.observer.Observe(e)
}
