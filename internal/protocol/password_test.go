package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewPassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "five digits", input: "12345"},
		{name: "mixed keys", input: "9+-*0"},
		{name: "too short", input: "1234", wantErr: true},
		{name: "too long", input: "123456", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "contains terminator", input: "12#45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPassword(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPassword) {
					t.Fatalf("NewPassword(%q) error = %v, want ErrInvalidPassword", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPassword(%q) error = %v", tt.input, err)
			}
			if got := string(p.Effective()); got != tt.input {
				t.Errorf("Effective() = %q, want %q", got, tt.input)
			}
			if p[PasswordLength] != Terminator {
				t.Errorf("terminator slot = %q, want %q", p[PasswordLength], Terminator)
			}
			if p[FrameLength-1] != 0 {
				t.Errorf("framing slot = %d, want NUL", p[FrameLength-1])
			}
		})
	}
}

func TestPassword_Wire(t *testing.T) {
	p, err := NewPassword("12345")
	if err != nil {
		t.Fatalf("NewPassword() error = %v", err)
	}
	if got := p.Wire(); !bytes.Equal(got, []byte("12345#")) {
		t.Errorf("Wire() = %q, want %q", got, "12345#")
	}
}

func TestPassword_Matches(t *testing.T) {
	stored, _ := NewPassword("12345")

	tests := []struct {
		name  string
		frame []byte
		want  bool
	}{
		{name: "exact frame", frame: []byte("12345#"), want: true},
		{name: "different last char", frame: []byte("12346#"), want: false},
		{name: "reversed", frame: []byte("54321#"), want: false},
		{name: "short frame", frame: []byte("123#"), want: false},
		{name: "empty frame", frame: []byte("#"), want: false},
		// Only the effective length is compared: garbage in the terminator
		// and framing region is accepted.
		{name: "garbage in terminator slot", frame: []byte("12345X"), want: true},
		{name: "extra bytes after terminator", frame: []byte("12345#99"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PasswordFromFrame(tt.frame).Matches(stored)
			if got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestPassword_ShortFramesNeverMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
	}{
		{name: "equal short frames", a: []byte("12#"), b: []byte("12#")},
		{name: "equal empty frames", a: []byte("#"), b: []byte("#")},
		{name: "terminator inside five characters", a: []byte("12#45#"), b: []byte("12#45#")},
		{name: "zero buffers", a: nil, b: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := PasswordFromFrame(tt.a), PasswordFromFrame(tt.b)
			if a.Complete() {
				t.Errorf("Complete(%q) = true, want false", tt.a)
			}
			if a.Matches(b) {
				t.Errorf("Matches(%q, %q) = true, want false", tt.a, tt.b)
			}
		})
	}
}

func TestPassword_Complete(t *testing.T) {
	p, _ := NewPassword("12345")
	if !p.Complete() {
		t.Error("NewPassword result should be complete")
	}
	if !PasswordFromFrame([]byte("12345X")).Complete() {
		t.Error("garbage in the terminator slot should not make a frame incomplete")
	}
}

func TestPasswordFromFrame_AlwaysNULTerminated(t *testing.T) {
	p := PasswordFromFrame([]byte("1234567890"))
	if p[FrameLength-1] != 0 {
		t.Errorf("framing slot = %d, want NUL", p[FrameLength-1])
	}
	if got := string(p.Effective()); got != "12345" {
		t.Errorf("Effective() = %q, want %q", got, "12345")
	}
}

func TestPassword_StringIsMasked(t *testing.T) {
	p, _ := NewPassword("12345")
	if got := p.String(); got != "*****" {
		t.Errorf("String() = %q, want masked", got)
	}
}

func TestPassword_IsZero(t *testing.T) {
	var zero Password
	if !zero.IsZero() {
		t.Error("zero Password should report IsZero")
	}
	p, _ := NewPassword("00000")
	if p.IsZero() {
		t.Error("ASCII zeros are characters, not an empty password")
	}
}
