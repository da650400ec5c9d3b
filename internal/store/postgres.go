package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"fleetopt/internal/model"
)

// Postgres persists solutions and the webhook queue.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the schema if missing (dev helper).
func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solutions (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			record JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS solutions_tenant_idx ON solutions (tenant_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			url TEXT NOT NULL,
			events JSONB NOT NULL,
			secret TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			subscription_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			url TEXT NOT NULL,
			secret TEXT NOT NULL DEFAULT '',
			payload BYTEA NOT NULL,
			attempts INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_error TEXT NOT NULL DEFAULT '',
			response_code INT NOT NULL DEFAULT 0,
			latency_ms INT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS webhook_due_idx ON webhook_deliveries (status, next_attempt_at)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) SaveSolution(ctx context.Context, rec model.SolutionRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO solutions (id, tenant_id, record) VALUES ($1, $2, $3)`,
		rec.ID, rec.TenantID, body)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (p *Postgres) GetSolution(ctx context.Context, tenantID, id string) (model.SolutionRecord, error) {
	var body []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT record FROM solutions WHERE id = $1 AND tenant_id = $2`,
		id, tenantID).Scan(&body)
	if err == sql.ErrNoRows {
		return model.SolutionRecord{}, ErrNotFound
	}
	if err != nil {
		return model.SolutionRecord{}, err
	}
	var rec model.SolutionRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return model.SolutionRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) ListSolutions(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolutionRecord, string, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id, record FROM solutions WHERE tenant_id = $1`
	args := []any{tenantID}
	if cursor != "" {
		q += ` AND created_at > (SELECT created_at FROM solutions WHERE id = $2)`
		args = append(args, cursor)
	}
	q += ` ORDER BY created_at LIMIT ` + strconv.Itoa(limit+1)
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []model.SolutionRecord{}
	next := ""
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, "", err
		}
		var rec model.SolutionRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, "", err
		}
		if len(out) == limit {
			next = out[limit-1].ID
			break
		}
		out = append(out, rec)
	}
	return out, next, rows.Err()
}

func (p *Postgres) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	sub := model.Subscription{
		ID:       uuid.New().String(),
		TenantID: req.TenantID,
		URL:      req.URL,
		Events:   req.Events,
		Secret:   req.Secret,
	}
	events, err := json.Marshal(sub.Events)
	if err != nil {
		return model.Subscription{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, tenant_id, url, events, secret) VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.TenantID, sub.URL, events, sub.Secret)
	if err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, url, events, secret FROM subscriptions WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Subscription{}
	for rows.Next() {
		var sub model.Subscription
		var events []byte
		sub.TenantID = tenantID
		if err := rows.Scan(&sub.ID, &sub.URL, &events, &sub.Secret); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(events, &sub.Events); err != nil {
			return nil, err
		}
		for _, evt := range sub.Events {
			if evt == eventType || evt == "*" {
				out = append(out, sub)
				break
			}
		}
	}
	return out, rows.Err()
}

func (p *Postgres) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO webhook_deliveries (id, tenant_id, subscription_id, event_type, url, secret, payload)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, tenantID, subscriptionID, eventType, url, secret, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, tenant_id, subscription_id, event_type, url, secret, payload, attempts
		 FROM webhook_deliveries
		 WHERE status = 'pending' AND next_attempt_at <= now()
		 ORDER BY next_attempt_at LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WebhookDelivery{}
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.TenantID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	status := "pending"
	if success {
		status = "delivered"
	}
	next := time.Now()
	if nextAttemptAt != nil {
		next = *nextAttemptAt
	}
	_, err := p.db.ExecContext(ctx,
		`UPDATE webhook_deliveries
		 SET attempts = attempts + 1, status = $2, next_attempt_at = $3,
		     last_error = $4, response_code = $5, latency_ms = $6
		 WHERE id = $1`,
		id, status, next, lastError, responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE webhook_deliveries
		 SET attempts = attempts + 1, status = 'failed',
		     last_error = $2, response_code = $3, latency_ms = $4
		 WHERE id = $1`,
		id, lastError, responseCode, latencyMs)
	return err
}
