package panel

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
)

// ErrKeypadClosed is returned once the keypad's input is exhausted.
var ErrKeypadClosed = errors.New("panel: keypad closed")

// Keypad blocks until a key is pressed.
type Keypad interface {
	ReadKey(ctx context.Context) (byte, error)
}

// TranslateKey converts a raw numeric key value (0 to 9) to its ASCII digit.
// Every other key is returned unchanged.
func TranslateKey(k byte) byte {
	if k < 10 {
		return '0' + k
	}
	return k
}

// ReaderKeypad reads key presses from a byte stream such as a terminal.
//
// A single goroutine reads the stream; ReadKey hands out one key at a time.
// Line breaks and spaces are skipped so that a user can type a key and then
// press Enter.
type ReaderKeypad struct {
	keys chan byte
	done chan struct{}

	errMu sync.Mutex
	err   error
}

// NewReaderKeypad starts reading r in the background.
func NewReaderKeypad(r io.Reader) *ReaderKeypad {
	k := &ReaderKeypad{
		keys: make(chan byte),
		done: make(chan struct{}),
	}
	go k.readLoop(bufio.NewReader(r))
	return k
}

// ReadKey returns the next key, translated with TranslateKey.
func (k *ReaderKeypad) ReadKey(ctx context.Context) (byte, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case b := <-k.keys:
		return b, nil
	case <-k.done:
		k.errMu.Lock()
		defer k.errMu.Unlock()
		return 0, k.err
	}
}

func (k *ReaderKeypad) readLoop(r *bufio.Reader) {
	defer close(k.done)
	for {
		b, err := r.ReadByte()
		if err != nil {
			k.errMu.Lock()
			if errors.Is(err, io.EOF) {
				k.err = ErrKeypadClosed
			} else {
				k.err = err
			}
			k.errMu.Unlock()
			return
		}
		switch b {
		case '\n', '\r', ' ':
			continue
		}
		k.keys <- TranslateKey(b)
	}
}

// ScriptedKeypad replays a fixed key sequence, then reports ErrKeypadClosed.
type ScriptedKeypad struct {
	mu   sync.Mutex
	keys []byte
	read int
}

// NewScriptedKeypad creates a keypad that will press keys in order.
func NewScriptedKeypad(keys string) *ScriptedKeypad {
	return &ScriptedKeypad{keys: []byte(keys)}
}

// ReadKey returns the next scripted key.
func (s *ScriptedKeypad) ReadKey(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.read >= len(s.keys) {
		return 0, ErrKeypadClosed
	}
	b := s.keys[s.read]
	s.read++
	return TranslateKey(b), nil
}

// Pressed returns how many keys have been consumed.
func (s *ScriptedKeypad) Pressed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read
}
