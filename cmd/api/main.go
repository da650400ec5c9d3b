package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"fleetopt/internal/api"
	"fleetopt/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	srv, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	mux := http.NewServeMux()

	// Optimization
	mux.HandleFunc("/v1/solve", srv.SolveHandler)

	// Solutions
	mux.HandleFunc("/v1/solutions", srv.SolutionsIndexHandler)
	mux.HandleFunc("/v1/solutions/", srv.SolutionByIDHandler) // includes /events/ws

	// Webhook subscriptions
	mux.HandleFunc("/v1/subscriptions", srv.SubscriptionsHandler)
	mux.HandleFunc("/v1/subscriptions/", srv.SubscriptionByIDHandler)

	// Health & observability
	mux.HandleFunc("/healthz", srv.HealthHandler)
	mux.HandleFunc("/readyz", srv.ReadyHandler)
	mux.HandleFunc("/debug", srv.DebugHandler)
	mux.Handle("/metrics", srv.MetricsHandler())

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API listening on %s", cfg.Addr)
	// Start webhook worker
	if srv.Pub != nil {
		worker := srv.NewWebhookWorker()
		worker.Start()
	}
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(start)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
	})
}
