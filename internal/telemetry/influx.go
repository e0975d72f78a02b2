package telemetry

import (
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/control"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// PointWriter is the part of *influxdb.Client the Influx sink needs.
type PointWriter interface {
	WriteAuthAttempt(lockID, node string, attempt int, success bool)
	WriteDoorCycle(lockID string, openSeconds, holdSeconds, closeSeconds int)
	WriteAlarm(lockID string, seconds int)
	WriteModeChange(lockID, node, mode string)
}

// InfluxSink turns node events into time-series points. Writes are
// non-blocking; the client batches them.
type InfluxSink struct {
	w      PointWriter
	lockID string
	timing control.DoorTiming
}

// NewInfluxSink creates a sink. timing supplies the door cycle and alarm
// durations recorded with each completed sequence.
func NewInfluxSink(w PointWriter, lockID string, timing control.DoorTiming) *InfluxSink {
	return &InfluxSink{w: w, lockID: lockID, timing: timing}
}

// Observe writes the point for e, if any.
func (s *InfluxSink) Observe(e protocol.Event) {
	switch e.Kind {
	case protocol.EventAuthAttempt:
		s.w.WriteAuthAttempt(s.lockID, e.Node, e.Attempt, e.Success)
	case protocol.EventModeChanged:
		s.w.WriteModeChange(s.lockID, e.Node, e.Mode.String())
	case protocol.EventDoorClosed:
		// Only the back node drives the motor.
		if e.Node == protocol.RoleBack {
			s.w.WriteDoorCycle(s.lockID, s.timing.Open, s.timing.Hold, s.timing.Close)
		}
	case protocol.EventAlarmCleared:
		s.w.WriteAlarm(s.lockID, s.timing.Alarm)
	}
}
