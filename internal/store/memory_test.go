package store

import (
	"context"
	"testing"
	"time"

	"fleetopt/internal/model"
)

func TestMemorySolutions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.SaveSolution(ctx, model.SolutionRecord{TenantID: "t1", TotalCost: 42})
	if err != nil || id == "" {
		t.Fatalf("save: %v", err)
	}
	rec, err := m.GetSolution(ctx, "t1", id)
	if err != nil || rec.TotalCost != 42 {
		t.Fatalf("get: %v %+v", err, rec)
	}
	if _, err := m.GetSolution(ctx, "t2", id); err != ErrNotFound {
		t.Fatalf("cross-tenant get: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := m.SaveSolution(ctx, model.SolutionRecord{TenantID: "t1"}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	page, next, err := m.ListSolutions(ctx, "t1", "", 2)
	if err != nil || len(page) != 2 || next == "" {
		t.Fatalf("list page 1: %v len=%d next=%q", err, len(page), next)
	}
	rest, _, err := m.ListSolutions(ctx, "t1", next, 10)
	if err != nil || len(rest) != 2 {
		t.Fatalf("list page 2: %v len=%d", err, len(rest))
	}
}

func TestMemoryWebhookQueue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	sub, err := m.CreateSubscription(ctx, model.SubscriptionRequest{
		TenantID: "t1", URL: "http://example.test", Events: []string{"solve.completed"}, Secret: "s",
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	subs, err := m.GetSubscriptionsForEvent(ctx, "t1", "solve.completed")
	if err != nil || len(subs) != 1 {
		t.Fatalf("subscriptions: %v %d", err, len(subs))
	}
	if got, _ := m.GetSubscriptionsForEvent(ctx, "t1", "other.event"); len(got) != 0 {
		t.Fatalf("unexpected match: %d", len(got))
	}

	id, err := m.EnqueueWebhook(ctx, "t1", sub.ID, "solve.completed", sub.URL, "s", []byte(`{}`))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 || due[0].ID != id {
		t.Fatalf("due: %v %d", err, len(due))
	}

	// Retry pushes the delivery into the future.
	next := time.Now().Add(time.Hour)
	if err := m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 12); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if due, _ = m.FetchDueWebhookDeliveries(ctx, 10); len(due) != 0 {
		t.Fatalf("delivery should not be due, got %d", len(due))
	}
	if err := m.FailWebhookDelivery(ctx, id, "gave up", 500, 12); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if err := m.DeleteSubscription(ctx, "t1", sub.ID); err != nil {
		t.Fatalf("delete sub: %v", err)
	}
}
