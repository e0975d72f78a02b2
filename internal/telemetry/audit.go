package telemetry

import (
	"context"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/audit"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// auditTimeout bounds a single audit insert.
const auditTimeout = 5 * time.Second

// AuditSink records every event except mode changes in the audit trail.
// Mode changes are derived state and already carried by the other events.
type AuditSink struct {
	repo   audit.Repository
	logger Logger
}

// NewAuditSink creates a sink writing to repo.
func NewAuditSink(repo audit.Repository) *AuditSink {
	return &AuditSink{repo: repo, logger: noopLogger{}}
}

// SetLogger sets the logger used to report insert failures.
func (s *AuditSink) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Observe inserts an audit row for e.
func (s *AuditSink) Observe(e protocol.Event) {
	if e.Kind == protocol.EventModeChanged {
		return
	}

	entry := &audit.Entry{
		Action:    string(e.Kind),
		Node:      e.Node,
		Mode:      e.Mode.String(),
		Attempt:   e.Attempt,
		Success:   e.Success,
		CreatedAt: e.At,
	}
	if e.Detail != "" {
		entry.Details = map[string]any{"detail": e.Detail}
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	if err := s.repo.Record(ctx, entry); err != nil {
		s.logger.Warn("recording audit entry failed", "action", entry.Action, "error", err)
	}
}
