package protocol

import "fmt"

// Control bytes exchanged on the link.
const (
	// Sync precedes every multi-step exchange.
	Sync byte = 0xED

	// StatusSuccess and StatusError report the outcome of a password check.
	StatusSuccess byte = 0x01
	StatusError   byte = 0x00

	// OpenDoorRequest asks the back node to authenticate then run the door cycle.
	OpenDoorRequest byte = 0x04

	// ChangePasswordRequest asks the back node to authenticate then re-enroll.
	ChangePasswordRequest byte = 0x05

	// Terminator ends every password string on the wire.
	Terminator byte = '#'
)

// Password framing and retry limits.
const (
	// PasswordLength is the effective number of password characters.
	PasswordLength = 5

	// FrameLength is the size of a password buffer: characters, terminator, NUL.
	FrameLength = PasswordLength + 2

	// MaxTries is the number of attempts in one bounded authentication,
	// counting the first.
	MaxTries = 3
)

// Mode is the application state each node holds independently.
// Both nodes must hold equal modes whenever the link is quiescent.
type Mode byte

// Mode codes. The numeric values are part of the wire format: the back node
// sends them verbatim after a password check.
const (
	ModeFirstBoot Mode = 0xFF
	ModeLocked    Mode = 0x00
	ModeMainMenu  Mode = 0x02
	ModeAlarm     Mode = 0x03
)

// String returns the lower-case mode name used in logs and events.
func (m Mode) String() string {
	switch m {
	case ModeFirstBoot:
		return "first_boot"
	case ModeLocked:
		return "locked"
	case ModeMainMenu:
		return "main_menu"
	case ModeAlarm:
		return "alarm"
	default:
		return fmt.Sprintf("unknown(0x%02X)", byte(m))
	}
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeFirstBoot, ModeLocked, ModeMainMenu, ModeAlarm:
		return true
	default:
		return false
	}
}

// ParseMode converts a mode name (as produced by String) back to a Mode.
func ParseMode(name string) (Mode, error) {
	for _, m := range []Mode{ModeFirstBoot, ModeLocked, ModeMainMenu, ModeAlarm} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// MarshalText renders the mode name, so JSON payloads carry "main_menu"
// rather than a raw byte.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
