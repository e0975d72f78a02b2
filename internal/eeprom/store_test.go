package eeprom

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_ErasedByDefault(t *testing.T) {
	m := NewMemoryStore()
	b, err := m.ReadByte(context.Background(), 0x0320)
	if err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	if b != ErasedValue {
		t.Errorf("ReadByte() = 0x%02X, want 0x%02X", b, ErasedValue)
	}
}

func TestWriteReadString(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if err := WriteString(ctx, m, 0x0320, []byte("12345")); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	got, err := ReadString(ctx, m, 0x0320, 5)
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if !bytes.Equal(got, []byte("12345")) {
		t.Errorf("ReadString() = %q, want %q", got, "12345")
	}
}

func TestWriteString_AbortsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.FailWritesFrom(0x0322)

	err := WriteString(ctx, m, 0x0320, []byte("12345"))
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("WriteString() error = %v, want ErrWriteFailed", err)
	}

	// Bytes before the failure stay written, the rest stay erased.
	want := []byte{'1', '2', ErasedValue, ErasedValue, ErasedValue}
	got, err := ReadString(ctx, m, 0x0320, 5)
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
}

func TestReadString_PartialOnFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := WriteString(ctx, m, 0x0320, []byte("abcde")); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	m.FailReadsFrom(0x0323)

	got, err := ReadString(ctx, m, 0x0320, 5)
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("ReadString() error = %v, want ErrReadFailed", err)
	}
	if string(got) != "abc" {
		t.Errorf("ReadString() partial = %q, want %q", got, "abc")
	}
}

func TestAddressBounds(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"write past end", func() error { return m.WriteByte(ctx, MaxAddress+1, 0) }},
		{"read past end", func() error { _, err := m.ReadByte(ctx, MaxAddress+1); return err }},
		{"string crosses end", func() error { return WriteString(ctx, m, MaxAddress-1, []byte("xyz")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrAddressOutOfRange) {
				t.Errorf("error = %v, want ErrAddressOutOfRange", err)
			}
		})
	}

	if err := m.WriteByte(ctx, MaxAddress, 0x42); err != nil {
		t.Errorf("WriteByte(MaxAddress) error = %v", err)
	}
}

func TestMemoryStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemoryStore()
	if err := m.WriteByte(ctx, 0, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteByte() error = %v, want context.Canceled", err)
	}
}
