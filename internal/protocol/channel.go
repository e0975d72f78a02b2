package protocol

import (
	"context"
	"fmt"
)

// Channel is a blocking, order-preserving byte link to the peer node.
//
// ReceiveByte blocks until a byte arrives. Implementations must return
// promptly with ctx.Err() once ctx is cancelled, and ErrChannelClosed once
// the link is gone. There is no other timeout.
type Channel interface {
	SendByte(ctx context.Context, b byte) error
	ReceiveByte(ctx context.Context) (byte, error)
}

// WaitSync discards incoming bytes until the Sync marker is observed.
func WaitSync(ctx context.Context, ch Channel) error {
	for {
		b, err := ch.ReceiveByte(ctx)
		if err != nil {
			return fmt.Errorf("waiting for sync: %w", err)
		}
		if b == Sync {
			return nil
		}
	}
}

// SendBytes sends each byte in order, stopping at the first failure.
func SendBytes(ctx context.Context, ch Channel, data ...byte) error {
	for _, b := range data {
		if err := ch.SendByte(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// SendPassword transmits the effective characters of p followed by the
// terminator.
func SendPassword(ctx context.Context, ch Channel, p Password) error {
	if err := SendBytes(ctx, ch, p.Wire()...); err != nil {
		return fmt.Errorf("sending password: %w", err)
	}
	return nil
}

// SendSyncedPassword sends Sync and then the password, the way the front
// node submits every capture.
func SendSyncedPassword(ctx context.Context, ch Channel, p Password) error {
	if err := ch.SendByte(ctx, Sync); err != nil {
		return fmt.Errorf("sending sync: %w", err)
	}
	return SendPassword(ctx, ch, p)
}

// ReceivePassword reads bytes until the terminator and returns the framed
// password with a local NUL appended. Bytes past the terminator slot are
// read off the link but not stored.
func ReceivePassword(ctx context.Context, ch Channel) (Password, error) {
	frame := make([]byte, 0, FrameLength)
	for {
		b, err := ch.ReceiveByte(ctx)
		if err != nil {
			return Password{}, fmt.Errorf("receiving password: %w", err)
		}
		if len(frame) < FrameLength-1 {
			frame = append(frame, b)
		}
		if b == Terminator {
			return PasswordFromFrame(frame), nil
		}
	}
}

// ReceiveSyncedPassword waits for Sync and then receives one password.
func ReceiveSyncedPassword(ctx context.Context, ch Channel) (Password, error) {
	if err := WaitSync(ctx, ch); err != nil {
		return Password{}, err
	}
	return ReceivePassword(ctx, ch)
}
