package api

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisBroker implements EventBroker over Redis Pub/Sub so multiple API
// replicas share one event stream.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: redis.NewClient(opt)}, nil
}

func (b *RedisBroker) Subscribe(solveID string) chan SolveEvent {
	ch := make(chan SolveEvent, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(solveID))
	// initial consume to ensure subscription
	_, _ = ps.Receive(ctx)
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt SolveEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(solveID string, ch chan SolveEvent) {
	// The reader goroutine owns ch; it exits and closes it when the
	// underlying PubSub channel closes.
	_ = solveID
	_ = ch
}

func (b *RedisBroker) Publish(solveID string, evt SolveEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(solveID), data).Err()
}

func (b *RedisBroker) chanName(solveID string) string { return "solve:" + solveID }
