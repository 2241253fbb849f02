// Package record implements the repository interfaces on top of the
// per-owner record store. Every value is one JSON document under one
// key; absence of a key reads back as the empty value.
package record

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
)

// readJSON loads and decodes a record. Returns (false, nil) when the
// key does not exist so callers can fall back to an empty value.
func readJSON(ctx context.Context, store recordstore.Store, key string, out interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return false, nil
		}
		return false, domain.WrapError(domain.ErrCodeUnavailable, "record read failed", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, domain.WrapError(domain.ErrCodeInternal, "record decode failed", err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, store recordstore.Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "record encode failed", err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "record write failed", err)
	}
	return nil
}

func listOwners(ctx context.Context, store recordstore.Store, prefix string) ([]string, error) {
	keys, err := store.ListKeys(ctx, prefix)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "key scan failed", err)
	}
	owners := make([]string, 0, len(keys))
	for _, key := range keys {
		if owner := recordstore.OwnerFromKey(key, prefix); owner != "" {
			owners = append(owners, owner)
		}
	}
	return owners, nil
}
