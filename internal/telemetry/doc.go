// Package telemetry delivers node events to the outside world.
//
// Sinks implement protocol.Observer:
//
//	MQTTSink    retained node mode plus one event topic per kind
//	InfluxSink  auth attempts, door cycles, alarms and mode changes
//	AuditSink   rows in the audit_logs table
//
// Fanout delivers one event to several sinks. Async decouples a slow sink
// from the node loop with a bounded queue; when the queue is full the event
// is dropped and counted rather than blocking the node.
package telemetry
