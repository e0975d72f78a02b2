package protocol

import (
	"bytes"
	"fmt"
)

// Password is a fixed-size password buffer as held by either node.
//
// Layout (FrameLength slots):
//
//	[0..4] effective characters
//	[5]    Terminator ('#'), present when the password came from the wire
//	[6]    NUL, local framing only, never transmitted
//
// Only the effective characters take part in comparison. A buffer whose
// terminator or NUL slots differ still matches.
type Password [FrameLength]byte

// NewPassword builds a framed password from exactly PasswordLength characters.
//
// Parameters:
//   - s: The password characters (must not contain the terminator)
//
// Returns:
//   - Password: Framed buffer ready for transmission
//   - error: ErrInvalidPassword if the length or content is wrong
func NewPassword(s string) (Password, error) {
	var p Password
	if len(s) != PasswordLength {
		return p, fmt.Errorf("%w: want %d characters, got %d", ErrInvalidPassword, PasswordLength, len(s))
	}
	if bytes.IndexByte([]byte(s), Terminator) >= 0 {
		return p, fmt.Errorf("%w: contains terminator %q", ErrInvalidPassword, Terminator)
	}
	copy(p[:], s)
	p[PasswordLength] = Terminator
	p[PasswordLength+1] = 0
	return p, nil
}

// PasswordFromFrame builds a Password from bytes received off the wire.
//
// The frame is copied into the buffer up to the terminator slot; anything
// beyond it is dropped and the NUL slot is always written locally. A frame
// with fewer than PasswordLength characters before its terminator yields an
// incomplete Password, which matches nothing.
func PasswordFromFrame(frame []byte) Password {
	var p Password
	n := copy(p[:FrameLength-1], frame)
	p[n] = 0
	return p
}

// Complete reports whether every effective slot holds a character, that is
// neither NUL nor the terminator.
func (p Password) Complete() bool {
	for _, b := range p[:PasswordLength] {
		if b == 0 || b == Terminator {
			return false
		}
	}
	return true
}

// Matches reports whether p and other are both complete and their effective
// characters are equal. Terminator and framing slots are not compared.
func (p Password) Matches(other Password) bool {
	return p.Complete() && other.Complete() && bytes.Equal(p[:PasswordLength], other[:PasswordLength])
}

// Effective returns a copy of the effective characters.
func (p Password) Effective() []byte {
	out := make([]byte, PasswordLength)
	copy(out, p[:PasswordLength])
	return out
}

// Wire returns the bytes transmitted for p: the effective characters and
// the terminator. The local NUL slot is not included.
func (p Password) Wire() []byte {
	out := make([]byte, 0, PasswordLength+1)
	out = append(out, p[:PasswordLength]...)
	return append(out, Terminator)
}

// IsZero reports whether no character has been set.
func (p Password) IsZero() bool {
	for _, b := range p[:PasswordLength] {
		if b != 0 {
			return false
		}
	}
	return true
}

// String masks the password so it never leaks into logs.
func (p Password) String() string {
	return "*****"
}
