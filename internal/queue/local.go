package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"wotro-backend/internal/logger"
)

// LocalBus delivers events to an in-process handler when no broker is
// configured. Delivery happens on a separate goroutine so publishers never
// wait on notification side effects.
type LocalBus struct {
	handle Handler
	wg     sync.WaitGroup
}

func NewLocalBus(handle Handler) *LocalBus {
	return &LocalBus{handle: handle}
}

func (b *LocalBus) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.handle(context.WithoutCancel(ctx), routingKey, body); err != nil {
			logger.Error("Local event handling failed", "routing_key", routingKey, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every in-flight delivery has been handled.
func (b *LocalBus) Wait() {
	b.wg.Wait()
}
