package record

import (
	"context"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
)

type taskRepository struct {
	store recordstore.Store
}

func NewTaskRepository(store recordstore.Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) ListOwned(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if _, err := readJSON(ctx, r.store, recordstore.TasksKey(ownerID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ReplaceOwned(ctx context.Context, ownerID string, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return writeJSON(ctx, r.store, recordstore.TasksKey(ownerID), tasks)
}

func (r *taskRepository) Owners(ctx context.Context) ([]string, error) {
	return listOwners(ctx, r.store, recordstore.TasksPrefix)
}
