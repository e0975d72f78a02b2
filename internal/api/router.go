package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each component check in /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.readOnlyMiddleware)
	r.NotFound(notFound)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/audit", s.handleListAuditLogs)
	})

	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	return r
}

// ComponentHealth is the result of one component check.
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// handleHealth reports "ok" when every component check passes and
// "degraded" with 503 otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]ComponentHealth, len(s.checks))
	healthy := true

	for name, check := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check.HealthCheck(ctx)
		cancel()

		if err != nil {
			healthy = false
			components[name] = ComponentHealth{Status: "error", Error: err.Error()}
			continue
		}
		components[name] = ComponentHealth{Status: "ok"}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"version":    s.version,
		"components": components,
	})
}

// NodeStatus is one node's entry in /status.
type NodeStatus struct {
	Role string `json:"role"`
	Mode string `json:"mode"`
	Code byte   `json:"code"`
}

// StatusResponse is the body of /status.
type StatusResponse struct {
	LockID  string       `json:"lock_id"`
	Nodes   []NodeStatus `json:"nodes"`
	InSync  bool         `json:"in_sync"`
	Clients int          `json:"websocket_clients"`
}

// handleStatus returns the current mode of each node this process runs.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

// status reports each node's mode, sorted by role. in_sync is false only
// when two nodes are present and their modes differ, which is expected
// while an exchange is in flight.
func (s *Server) status() StatusResponse {
	resp := StatusResponse{LockID: s.lockID, InSync: true}

	roles := make([]string, 0, len(s.nodes))
	for role := range s.nodes {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for i, role := range roles {
		m := s.nodes[role].Mode()
		resp.Nodes = append(resp.Nodes, NodeStatus{Role: role, Mode: m.String(), Code: byte(m)})
		if i > 0 && resp.Nodes[0].Code != byte(m) {
			resp.InSync = false
		}
	}
	if s.hub != nil {
		resp.Clients = s.hub.ClientCount()
	}
	return resp
}
