package record

import (
	"context"
	"time"

	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
)

type engagementRepository struct {
	store recordstore.Store
}

func NewEngagementRepository(store recordstore.Store) repository.EngagementRepository {
	return &engagementRepository{store: store}
}

func (r *engagementRepository) LastCheck(ctx context.Context, ownerID string) (time.Time, error) {
	var at time.Time
	found, err := readJSON(ctx, r.store, recordstore.LastCheckKey(ownerID), &at)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return time.Time{}, nil
	}
	return at, nil
}

func (r *engagementRepository) SetLastCheck(ctx context.Context, ownerID string, at time.Time) error {
	return writeJSON(ctx, r.store, recordstore.LastCheckKey(ownerID), at)
}

func (r *engagementRepository) LastSent(ctx context.Context, ownerID string) (map[string]time.Time, error) {
	sent := make(map[string]time.Time)
	if _, err := readJSON(ctx, r.store, recordstore.LastSentKey(ownerID), &sent); err != nil {
		return nil, err
	}
	return sent, nil
}

func (r *engagementRepository) ReplaceLastSent(ctx context.Context, ownerID string, sent map[string]time.Time) error {
	if sent == nil {
		sent = map[string]time.Time{}
	}
	return writeJSON(ctx, r.store, recordstore.LastSentKey(ownerID), sent)
}
