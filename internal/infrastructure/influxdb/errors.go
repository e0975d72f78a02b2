package influxdb

import "errors"

// Sentinel errors. Check with errors.Is.
var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed is returned when the server does not answer the
	// initial ping or reports itself unhealthy.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned by HealthCheck on a closed or zero client.
	ErrNotConnected = errors.New("influxdb: not connected")
)
