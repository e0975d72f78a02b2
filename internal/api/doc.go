// Package api provides the HTTP status API and WebSocket event stream of the
// door lock.
//
// Endpoints:
//
//	GET /api/v1/health  component health (database, MQTT, InfluxDB)
//	GET /api/v1/status  current mode of each node
//	GET /api/v1/audit   paginated audit trail
//	GET {ws.path}       live node events over WebSocket
//
// The API is read-only. Nothing it exposes can change a node's mode; the
// keypad is the only input to the session protocol.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
