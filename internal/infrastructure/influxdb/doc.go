// Package influxdb provides InfluxDB connectivity for lock telemetry.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes, and health monitoring.
//
// # Measurements
//
//   - auth_attempts: one point per password comparison (attempt, success)
//   - door_cycles: one point per completed open/hold/close sequence
//   - alarms: one point per buzzer alarm
//   - mode_changes: one point per node mode transition
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteAuthAttempt("door-001", "back", 1, false)
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned directly.
package influxdb
