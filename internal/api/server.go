package api

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"fleetopt/internal/config"
	"fleetopt/internal/metrics"
	"fleetopt/internal/store"
	"fleetopt/internal/webhooks"
)

type Server struct {
	Cfg     *config.Config
	Store   store.Store
	Pub     *webhooks.Publisher
	Broker  EventBroker
	Limiter *rate.Limiter
}

// NewServer creates a Server. Without a database URL it uses the
// in-memory store; without a Redis URL the in-memory broker.
func NewServer(cfg *config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// Dev helper; real deployments run migrations out of band.
		if err := sp.Migrate(context.Background()); err != nil {
			return nil, err
		}
		s = sp
	}
	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	metrics.RegisterDefault()
	return &Server{
		Cfg:     cfg,
		Store:   s,
		Pub:     webhooks.NewPublisher(s),
		Broker:  broker,
		Limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	}, nil
}

func (s *Server) withTenant(r *http.Request) (context.Context, string) {
	// Tenant comes from a header; there is no auth surface on this
	// internal service.
	tenant := r.Header.Get("X-Tenant-Id")
	if tenant == "" {
		tenant = "t_demo"
	}
	ctx := context.WithValue(r.Context(), ctxKeyTenant{}, tenant)
	return ctx, tenant
}

type ctxKeyTenant struct{}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store)
}
