package store

import (
	"context"
	"errors"
	"time"

	"fleetopt/internal/model"
)

// ErrNotFound is returned when a record does not exist for the tenant.
var ErrNotFound = errors.New("not found")

// WebhookDelivery is one queued webhook attempt.
type WebhookDelivery struct {
	ID             string
	TenantID       string
	SubscriptionID string
	EventType      string
	URL            string
	Secret         string
	Payload        []byte
	Attempts       int
}

// Store is the persistence interface used by the API server.
type Store interface {
	// Solutions
	SaveSolution(ctx context.Context, rec model.SolutionRecord) (string, error)
	GetSolution(ctx context.Context, tenantID, id string) (model.SolutionRecord, error)
	ListSolutions(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolutionRecord, string, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, tenantID, id string) error

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
}
