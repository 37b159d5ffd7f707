package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// WebhookDedup provides idempotency checks for gateway webhook deliveries.
// Key format: webhook:<reference>:<status>
type WebhookDedup struct {
	client *redis.Client
}

// NewWebhookDedup creates a WebhookDedup wrapping the given Redis client.
func NewWebhookDedup(client *redis.Client) *WebhookDedup {
	return &WebhookDedup{client: client}
}

// IsDuplicate reports whether this exact delivery has already been processed.
func (d *WebhookDedup) IsDuplicate(ctx context.Context, reference, status string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(reference, status)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this delivery has been processed (expires after dedupTTL).
func (d *WebhookDedup) Mark(ctx context.Context, reference, status string) error {
	return d.client.Set(ctx, d.key(reference, status), "1", dedupTTL).Err()
}

func (d *WebhookDedup) key(reference, status string) string {
	return fmt.Sprintf("webhook:%s:%s", reference, status)
}
