package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetopt/internal/buildinfo"
	"fleetopt/internal/metrics"
	"fleetopt/internal/model"
	"fleetopt/internal/store"
)

// SolveHandler handles POST /v1/solve
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.Limiter.Allow() {
		writeProblem(w, http.StatusTooManyRequests, "Rate limited", "solve request rate exceeded", r.URL.Path)
		return
	}
	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	ctx, tenant := s.withTenant(r)
	if req.TenantID == "" {
		req.TenantID = tenant
	}

	// Events published before the solution id exists are keyed by the
	// tenant so a client can follow a whole plan run.
	start := time.Now()
	rec, err := s.runSolve(&req, func(evt SolveEvent) { s.Broker.Publish(req.TenantID, evt) })
	if err != nil {
		metrics.SolveRequests.WithLabelValues(req.Options.Strategy, req.Options.Init, "error").Inc()
		writeProblem(w, http.StatusBadRequest, "Solve failed", err.Error(), r.URL.Path)
		return
	}
	id, err := s.Store.SaveSolution(ctx, rec)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save failed", err.Error(), r.URL.Path)
		return
	}
	rec.ID = id

	metrics.SolveRequests.WithLabelValues(rec.Strategy, rec.Init, "ok").Inc()
	metrics.SolveDuration.WithLabelValues(rec.Strategy).Observe(time.Since(start).Seconds())
	metrics.UnassignedJobs.Add(float64(rec.Metrics.UnassignedJobs))
	metrics.LocalSearchMoves.Add(float64(rec.Metrics.LocalSearchMoves))
	metrics.LocalSearchGain.Add(float64(rec.Metrics.LocalSearchGain))

	evt := SolveEvent{Type: "solve.completed", Data: map[string]any{
		"solutionId": id,
		"totalCost":  rec.TotalCost,
		"unassigned": rec.Metrics.UnassignedJobs,
	}}
	s.Broker.Publish(req.TenantID, evt)
	s.Broker.Publish(id, evt)
	if s.Pub != nil {
		s.Pub.Emit(ctx, req.TenantID, "solve.completed", rec)
	}

	writeJSON(w, http.StatusOK, rec)
}

// SolutionsIndexHandler handles GET /v1/solutions
func (s *Server) SolutionsIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, tenant := s.withTenant(r)
	limit := 50
	cursor := r.URL.Query().Get("cursor")
	items, next, err := s.Store.ListSolutions(ctx, tenant, cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// SolutionByIDHandler handles GET /v1/solutions/{id} and the event
// stream at /v1/solutions/{id}/events/ws.
func (s *Server) SolutionByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/solutions/")
	if rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/events/ws"); ok {
		s.SolveEventsWSHandler(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, tenant := s.withTenant(r)
	rec, err := s.Store.GetSolution(ctx, tenant, rest)
	if err == store.ErrNotFound {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Get failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SubscriptionsHandler handles POST /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	ctx, tenant := s.withTenant(r)
	if req.TenantID == "" {
		req.TenantID = tenant
	}
	if req.URL == "" || len(req.Events) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid subscription", "url and events required", r.URL.Path)
		return
	}
	sub, err := s.Store.CreateSubscription(ctx, req)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Subscribe failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if r.Method != http.MethodDelete || id == "" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, tenant := s.withTenant(r)
	if err := s.Store.DeleteSubscription(ctx, tenant, id); err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// MetricsHandler serves the Prometheus registry.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
}

// DebugHandler handles GET /debug
func (s *Server) DebugHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"addr":        s.Cfg.Addr,
			"hasDatabase": s.Cfg.DatabaseURL != "",
			"hasRedis":    s.Cfg.RedisURL != "",
			"rateRPS":     s.Cfg.RateLimit.RPS,
			"solver":      s.Cfg.Solver,
		},
	})
}
