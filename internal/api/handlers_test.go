package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"fleetopt/internal/config"
	"fleetopt/internal/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(config.Default())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func solveBody() []byte {
	return []byte(`{
		"matrix": [[0,1,2,3],[1,0,1,2],[2,1,0,1],[3,2,1,0]],
		"vehicles": [{"id":"v1","capacity":[10],"start":0,"end":0}],
		"jobs": [
			{"id":"a","locationIndex":1,"delivery":[1]},
			{"id":"b","locationIndex":2,"delivery":[1]},
			{"id":"c","locationIndex":3,"delivery":[1]}
		],
		"options": {"strategy":"basic","init":"nearest"}
	}`)
}

func TestHealthReady(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != 200 {
		t.Fatalf("health: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != 200 {
		t.Fatalf("ready: got %d", rr.Code)
	}
}

func TestSolveAndFetch(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(solveBody()))
	req.Header.Set("Content-Type", "application/json")
	s.SolveHandler(rr, req)
	if rr.Code != 200 {
		t.Fatalf("solve: got %d: %s", rr.Code, rr.Body.String())
	}
	var rec model.SolutionRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ID == "" || len(rec.Routes) != 1 {
		t.Fatalf("record: %+v", rec)
	}
	if rec.Metrics.AssignedJobs != 3 || len(rec.Unassigned) != 0 {
		t.Fatalf("assignment: %+v", rec.Metrics)
	}
	if rec.TotalCost != 6 {
		t.Fatalf("total cost = %d, want 6", rec.TotalCost)
	}

	// Fetch by id
	rr = httptest.NewRecorder()
	s.SolutionByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/solutions/"+rec.ID, nil))
	if rr.Code != 200 {
		t.Fatalf("get: got %d", rr.Code)
	}

	// List
	rr = httptest.NewRecorder()
	s.SolutionsIndexHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/solutions", nil))
	if rr.Code != 200 {
		t.Fatalf("list: got %d", rr.Code)
	}
	var list struct {
		Items []model.SolutionRecord `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil || len(list.Items) != 1 {
		t.Fatalf("list decode: %v (%d items)", err, len(list.Items))
	}
}

func TestSolveWithTimeWindows(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{
		"matrix": [[0,10,20],[10,0,10],[20,10,0]],
		"vehicles": [{"capacity":[10],"start":0,"end":0,"timeWindow":[0,1000]}],
		"jobs": [
			{"locationIndex":1,"delivery":[1],"serviceSec":5,"timeWindows":[[10,20]]},
			{"locationIndex":2,"delivery":[1],"serviceSec":5,"timeWindows":[[40,50]]}
		]
	}`)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.SolveHandler(rr, req)
	if rr.Code != 200 {
		t.Fatalf("solve: got %d: %s", rr.Code, rr.Body.String())
	}
	var rec model.SolutionRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Metrics.UnassignedJobs != 0 {
		t.Fatalf("unassigned: %+v", rec)
	}
}

func TestSolveValidation(t *testing.T) {
	s := newTestServer(t)
	cases := []string{
		`{`,
		`{"matrix":[[0,1],[1,0]],"vehicles":[],"jobs":[{"locationIndex":1}]}`,
		`{"matrix":[[0,1]],"vehicles":[{"capacity":[1]}],"jobs":[{"locationIndex":0}]}`,
		`{"matrix":[[0]],"vehicles":[{"capacity":[1]}],"jobs":[{"locationIndex":0}],"options":{"strategy":"alns"}}`,
		`{"matrix":[[0]],"vehicles":[{"capacity":[1]}],"jobs":[{"locationIndex":0}],"options":{"lambda":-1}}`,
	}
	for i, body := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/solve", strings.NewReader(body))
		s.SolveHandler(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d: got %d", i, rr.Code)
		}
	}
}

func TestSolveRateLimited(t *testing.T) {
	s := newTestServer(t)
	s.Limiter = rate.NewLimiter(0, 0)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(solveBody()))
	s.SolveHandler(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", rr.Code)
	}
}

func TestSubscriptions(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{"url":"http://example.test/hook","events":["solve.completed"],"secret":"s"}`)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/subscriptions", bytes.NewReader(body))
	s.SubscriptionsHandler(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("subscribe: got %d", rr.Code)
	}
	var sub model.Subscription
	if err := json.Unmarshal(rr.Body.Bytes(), &sub); err != nil || sub.ID == "" {
		t.Fatalf("decode: %v", err)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/v1/subscriptions/"+sub.ID, nil)
	s.SubscriptionByIDHandler(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d", rr.Code)
	}
}

func TestTenantIsolation(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(solveBody()))
	req.Header.Set("X-Tenant-Id", "t_a")
	s.SolveHandler(rr, req)
	if rr.Code != 200 {
		t.Fatalf("solve: got %d", rr.Code)
	}
	var rec model.SolutionRecord
	_ = json.Unmarshal(rr.Body.Bytes(), &rec)

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/solutions/"+rec.ID, nil)
	req.Header.Set("X-Tenant-Id", "t_b")
	s.SolutionByIDHandler(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant get: got %d", rr.Code)
	}
}
