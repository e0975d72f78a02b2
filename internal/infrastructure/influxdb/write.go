package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementAuthAttempts = "auth_attempts"
	MeasurementDoorCycles   = "door_cycles"
	MeasurementAlarms       = "alarms"
	MeasurementModeChanges  = "mode_changes"
)

// WriteAuthAttempt records one password comparison.
//
// Parameters:
//   - lockID: Lock identifier from node.id
//   - node: Node that performed the comparison
//   - attempt: 1-based attempt number within the current retry window
//   - success: Whether the password matched
func (c *Client) WriteAuthAttempt(lockID, node string, attempt int, success bool) {
	c.writePoint(authAttemptPoint(lockID, node, attempt, success, time.Now()))
}

// WriteDoorCycle records a completed unlock sequence and its phase durations.
func (c *Client) WriteDoorCycle(lockID string, openSeconds, holdSeconds, closeSeconds int) {
	c.writePoint(doorCyclePoint(lockID, openSeconds, holdSeconds, closeSeconds, time.Now()))
}

// WriteAlarm records a buzzer alarm of the given duration.
func (c *Client) WriteAlarm(lockID string, seconds int) {
	c.writePoint(alarmPoint(lockID, seconds, time.Now()))
}

// WriteModeChange records a node entering mode.
func (c *Client) WriteModeChange(lockID, node, mode string) {
	c.writePoint(modeChangePoint(lockID, node, mode, time.Now()))
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Example:
//
//	client.WritePoint("link_stats",
//	    map[string]string{"lock_id": "door-001"},
//	    map[string]interface{}{"bytes_rx": 412})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.writePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

func (c *Client) writePoint(p *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p)
}

func authAttemptPoint(lockID, node string, attempt int, success bool, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementAuthAttempts,
		map[string]string{
			"lock_id": lockID,
			"node":    node,
		},
		map[string]interface{}{
			"attempt": attempt,
			"success": success,
		},
		at,
	)
}

func doorCyclePoint(lockID string, openSeconds, holdSeconds, closeSeconds int, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementDoorCycles,
		map[string]string{
			"lock_id": lockID,
		},
		map[string]interface{}{
			"open_s":  openSeconds,
			"hold_s":  holdSeconds,
			"close_s": closeSeconds,
		},
		at,
	)
}

func alarmPoint(lockID string, seconds int, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementAlarms,
		map[string]string{
			"lock_id": lockID,
		},
		map[string]interface{}{
			"duration_s": seconds,
		},
		at,
	)
}

func modeChangePoint(lockID, node, mode string, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementModeChanges,
		map[string]string{
			"lock_id": lockID,
			"node":    node,
			"mode":    mode,
		},
		map[string]interface{}{
			"value": 1,
		},
		at,
	)
}
