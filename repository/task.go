package repository

import (
	"context"

	"github.com/taskbuddy/backend/domain"
)

// TaskRepository stores each owner's full task list under one key, so
// a list write is atomic while cross-owner writes are not.
type TaskRepository interface {
	ListOwned(ctx context.Context, ownerID string) ([]domain.Task, error)
	ReplaceOwned(ctx context.Context, ownerID string, tasks []domain.Task) error
	// Owners discovers every user id holding a task partition. Used by
	// shared-task loading.
	Owners(ctx context.Context) ([]string, error)
}
