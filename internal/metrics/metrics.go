package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// SolveRequests counts solve runs by strategy, init, and outcome
	SolveRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solve_requests_total", Help: "Total solve requests."},
		[]string{"strategy", "init", "status"},
	)
	// SolveDuration records end-to-end solve durations in seconds
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"strategy"},
	)
	// UnassignedJobs counts jobs left unassigned per solve
	UnassignedJobs = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "solve_unassigned_jobs_total", Help: "Jobs left unassigned across all solves."},
	)
	// LocalSearchMoves counts applied local-search moves
	LocalSearchMoves = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "local_search_moves_total", Help: "Applied local-search moves."},
	)
	// LocalSearchGain accumulates travel cost removed by local search
	LocalSearchGain = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "local_search_gain_total", Help: "Total travel cost removed by local search."},
	)
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SolveRequests)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(UnassignedJobs)
		Registry.MustRegister(LocalSearchMoves)
		Registry.MustRegister(LocalSearchGain)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
