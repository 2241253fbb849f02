package repository

import (
	"context"
	"time"
)

// EngagementRepository persists the per-viewer monitor state: the last
// scan timestamp and the last-sent time per conversation key.
type EngagementRepository interface {
	LastCheck(ctx context.Context, ownerID string) (time.Time, error)
	SetLastCheck(ctx context.Context, ownerID string, at time.Time) error

	LastSent(ctx context.Context, ownerID string) (map[string]time.Time, error)
	ReplaceLastSent(ctx context.Context, ownerID string, sent map[string]time.Time) error
}
