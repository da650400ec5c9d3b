package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetopt/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu         sync.Mutex
	solutions  map[string]model.SolutionRecord
	byTen      map[string][]string // tenant -> solution ids, insertion order
	subs       map[string][]model.Subscription
	deliveries map[string]*memDelivery
	order      []string // delivery ids, enqueue order
}

// memDelivery augments WebhookDelivery with scheduling state.
type memDelivery struct {
	WebhookDelivery
	NextAttemptAt time.Time
	Delivered     bool
	Failed        bool
	LastError     string
	ResponseCode  int
	LatencyMs     int
}

func NewMemory() *Memory {
	return &Memory{
		solutions:  map[string]model.SolutionRecord{},
		byTen:      map[string][]string{},
		subs:       map[string][]model.Subscription{},
		deliveries: map[string]*memDelivery{},
	}
}

func (m *Memory) SaveSolution(ctx context.Context, rec model.SolutionRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	m.solutions[rec.ID] = rec
	m.byTen[rec.TenantID] = append(m.byTen[rec.TenantID], rec.ID)
	return rec.ID, nil
}

func (m *Memory) GetSolution(ctx context.Context, tenantID, id string) (model.SolutionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.solutions[id]
	if !ok || rec.TenantID != tenantID {
		return model.SolutionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListSolutions(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolutionRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.byTen[tenantID]
	start := 0
	if cursor != "" {
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	out := []model.SolutionRecord{}
	next := ""
	for i := start; i < len(ids) && len(out) < limit; i++ {
		out = append(out, m.solutions[ids[i]])
		if len(out) == limit && i+1 < len(ids) {
			next = ids[i]
		}
	}
	return out, next, nil
}

func (m *Memory) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := model.Subscription{
		ID:       uuid.New().String(),
		TenantID: req.TenantID,
		URL:      req.URL,
		Events:   req.Events,
		Secret:   req.Secret,
	}
	m.subs[req.TenantID] = append(m.subs[req.TenantID], sub)
	return sub, nil
}

func (m *Memory) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Subscription{}
	for _, sub := range m.subs[tenantID] {
		for _, evt := range sub.Events {
			if evt == eventType || evt == "*" {
				out = append(out, sub)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[tenantID]
	for i, sub := range subs {
		if sub.ID == id {
			m.subs[tenantID] = append(subs[:i], subs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.deliveries[id] = &memDelivery{
		WebhookDelivery: WebhookDelivery{
			ID:             id,
			TenantID:       tenantID,
			SubscriptionID: subscriptionID,
			EventType:      eventType,
			URL:            url,
			Secret:         secret,
			Payload:        payload,
		},
		NextAttemptAt: time.Now(),
	}
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	out := []WebhookDelivery{}
	for _, id := range m.order {
		d := m.deliveries[id]
		if d == nil || d.Delivered || d.Failed || d.NextAttemptAt.After(now) {
			continue
		}
		out = append(out, d.WebhookDelivery)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	if success {
		d.Delivered = true
	} else if nextAttemptAt != nil {
		d.NextAttemptAt = *nextAttemptAt
	}
	return nil
}

func (m *Memory) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.Failed = true
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	return nil
}
