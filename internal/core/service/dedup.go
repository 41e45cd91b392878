package service

import "context"

// NoticeDedup abstracts the notification idempotency store (Redis). Sweeps
// consult it before sending an expiry notice so that a row retried on the
// next tick (for example after a failed delete) never notifies twice.
type NoticeDedup interface {
	IsDuplicate(ctx context.Context, kind, id string) (bool, error)
	Mark(ctx context.Context, kind, id string) error
}
