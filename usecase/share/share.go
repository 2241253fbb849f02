// Package share propagates task visibility between the two sides of a
// buddy pair.
package share

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// Propagate rewrites both partitions so that every task owned by one
// side is shared with exactly the other side. This is a full-list
// overwrite, not a merge: grants pointing at a previous buddy are
// silently redirected. Idempotent, so a partial failure (one side
// written, the other not) recovers by calling it again.
func (uc *UseCase) Propagate(ctx context.Context, ownerID, buddyID string) error {
	if ownerID == "" || buddyID == "" || ownerID == buddyID {
		return domain.ErrInvalidPayload
	}

	if err := uc.shareAll(ctx, ownerID, buddyID); err != nil {
		return err
	}
	if err := uc.shareAll(ctx, buddyID, ownerID); err != nil {
		uc.logger.Warn("one-directional propagation, retry will converge",
			zap.String("owner_id", ownerID),
			zap.String("buddy_id", buddyID),
			zap.Error(err))
		return err
	}
	return nil
}

func (uc *UseCase) shareAll(ctx context.Context, ownerID, granteeID string) error {
	tasks, err := uc.tasks.ListOwned(ctx, ownerID)
	if err != nil {
		return err
	}
	for i := range tasks {
		shareTask(&tasks[i], granteeID)
	}
	return uc.tasks.ReplaceOwned(ctx, ownerID, tasks)
}

// shareTask sets the grant on a task and its sub-tasks. Single-target
// model: a task is never shared with more than one buddy at a time.
func shareTask(task *domain.Task, granteeID string) {
	task.SharedWith = []string{granteeID}
	for i := range task.SubTasks {
		shareTask(&task.SubTasks[i], granteeID)
	}
}
