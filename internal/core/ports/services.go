package ports

import (
	"context"

	"github.com/samirrijal/geofunlab/internal/core/domain"
)

// EventPublisher publishes view events to a message broker.
type EventPublisher interface {
	PublishViewChanged(ctx context.Context, ev *domain.ViewChanged) error
}

// EventSubscriber subscribes to view events from a message broker.
type EventSubscriber interface {
	SubscribeViewChanged(ctx context.Context, handler func(ctx context.Context, ev *domain.ViewChanged) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
