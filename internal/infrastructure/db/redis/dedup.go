package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// NoticeDedup provides idempotency checks for expiry notifications, backed
// by Redis. Key format: notice:<kind>:<record_id>
type NoticeDedup struct {
	client *redis.Client
}

// NewNoticeDedup creates a NoticeDedup wrapping the given Redis client.
func NewNoticeDedup(client *redis.Client) *NoticeDedup {
	return &NoticeDedup{client: client}
}

// IsDuplicate reports whether a notice for this record has already gone out.
func (d *NoticeDedup) IsDuplicate(ctx context.Context, kind, id string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(kind, id)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the notice has been sent (expires after dedupTTL).
func (d *NoticeDedup) Mark(ctx context.Context, kind, id string) error {
	return d.client.Set(ctx, d.key(kind, id), "1", dedupTTL).Err()
}

func (d *NoticeDedup) key(kind, id string) string {
	return fmt.Sprintf("notice:%s:%s", kind, id)
}
