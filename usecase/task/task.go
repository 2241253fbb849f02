// Package task implements owner-scoped task operations. Completion,
// deletion and breakdown are owner-only; celebration is open to anyone
// holding a visibility grant.
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/repository"
	chatUC "github.com/taskbuddy/backend/usecase/chat"
	reminderUC "github.com/taskbuddy/backend/usecase/reminder"
	shareUC "github.com/taskbuddy/backend/usecase/share"
)

type UseCase struct {
	tasks     repository.TaskRepository
	buddies   repository.BuddyRepository
	sharing   *shareUC.UseCase
	chat      *chatUC.UseCase
	reminders *reminderUC.UseCase
	logger    *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	buddies repository.BuddyRepository,
	sharing *shareUC.UseCase,
	chat *chatUC.UseCase,
	reminders *reminderUC.UseCase,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		buddies:   buddies,
		sharing:   sharing,
		chat:      chat,
		reminders: reminders,
		logger:    logger,
	}
}

// Create adds a task to the owner's partition, shares it with the
// active buddy, announces it in the pair's conversation and computes
// the task's first reminder slot.
func (uc *UseCase) Create(ctx context.Context, owner *domain.User, title string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if owner == nil || owner.ID == "" || title == "" {
		return nil, domain.ErrInvalidPayload
	}

	buddy, err := uc.activeBuddy(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := domain.Task{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Title:     title,
		CreatedAt: now,
	}
	if buddy != nil {
		task.SharedWith = []string{buddy.UserID}
	}

	owned, err := uc.tasks.ListOwned(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.ReplaceOwned(ctx, owner.ID, append(owned, task)); err != nil {
		return nil, err
	}

	if slot, err := uc.reminders.BestTime(ctx, owner.ID, task.ID, now); err != nil {
		uc.logger.Warn("reminder estimate failed",
			zap.String("task_id", task.ID),
			zap.Error(err))
	} else {
		uc.logger.Info("reminder scheduled",
			zap.String("task_id", task.ID),
			zap.Time("at", slot))
	}

	if buddy != nil {
		if _, err := uc.chat.Post(ctx, chatUC.PostInput{
			SenderID:    owner.ID,
			SenderName:  owner.Name,
			RecipientID: buddy.UserID,
			TaskID:      task.ID,
			TaskTitle:   task.Title,
			Text:        fmt.Sprintf("I just added a new task: %q. Let's work on our goals together!", task.Title),
			At:          now,
		}); err != nil {
			uc.logger.Warn("task announcement failed", zap.Error(err))
		}
	}
	return &task, nil
}

// SetCompleted toggles completion. Owner-only; a completion stamps the
// activity timestamps and records a reminder success at that moment.
func (uc *UseCase) SetCompleted(ctx context.Context, callerID, taskID string, completed bool) (*domain.Task, error) {
	now := time.Now()
	task, err := uc.mutateOwned(ctx, callerID, taskID, func(task *domain.Task) {
		task.Completed = completed
		task.LastActivityAt = &now
		if completed {
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	})
	if err != nil {
		return nil, err
	}
	if completed {
		if err := uc.reminders.RecordSuccess(ctx, callerID, taskID, now); err != nil {
			uc.logger.Warn("reminder success not recorded", zap.Error(err))
		}
	}
	return task, nil
}

// Celebrate bumps the effort counter. Allowed for the owner and for
// anyone the task is shared with.
func (uc *UseCase) Celebrate(ctx context.Context, callerID, taskID string) (*domain.Task, error) {
	ownerID, task, err := uc.findTask(ctx, callerID, taskID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID && !task.IsSharedWith(callerID) {
		return nil, domain.ErrNoVisibility
	}
	return uc.mutateOwnedBy(ctx, ownerID, taskID, func(task *domain.Task) {
		task.Attempts++
	})
}

// AddSubTask appends a sub-task that inherits the parent's sharing.
// Owner-only.
func (uc *UseCase) AddSubTask(ctx context.Context, callerID, parentID, title string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidPayload
	}
	return uc.mutateOwned(ctx, callerID, parentID, func(parent *domain.Task) {
		parent.SubTasks = append(parent.SubTasks, domain.Task{
			ID:         uuid.NewString(),
			OwnerID:    parent.OwnerID,
			Title:      title,
			CreatedAt:  time.Now(),
			SharedWith: append([]string(nil), parent.SharedWith...),
		})
	})
}

// Delete removes a task from the owner's partition. Owner-only.
func (uc *UseCase) Delete(ctx context.Context, callerID, taskID string) error {
	owned, err := uc.tasks.ListOwned(ctx, callerID)
	if err != nil {
		return err
	}
	remaining := make([]domain.Task, 0, len(owned))
	found := false
	for _, task := range owned {
		if task.ID == taskID {
			found = true
			continue
		}
		remaining = append(remaining, task)
	}
	if !found {
		return uc.notOwnedError(ctx, callerID, taskID)
	}
	if err := uc.tasks.ReplaceOwned(ctx, callerID, remaining); err != nil {
		return err
	}
	return uc.propagateIfPaired(ctx, callerID)
}

// VisibleTasks returns the viewer's own tasks plus every task in other
// partitions that is either explicitly shared with the viewer or owned
// by the viewer's active buddy.
func (uc *UseCase) VisibleTasks(ctx context.Context, viewerID string) ([]domain.Task, error) {
	own, err := uc.tasks.ListOwned(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	buddy, err := uc.activeBuddy(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	owners, err := uc.tasks.Owners(ctx)
	if err != nil {
		return nil, err
	}
	visible := own
	for _, owner := range owners {
		if owner == viewerID {
			continue
		}
		others, err := uc.tasks.ListOwned(ctx, owner)
		if err != nil {
			return nil, err
		}
		for _, task := range others {
			if task.IsSharedWith(viewerID) || (buddy != nil && task.OwnerID == buddy.UserID) {
				visible = append(visible, task)
			}
		}
	}
	return visible, nil
}

// mutateOwned applies fn to a task in the caller's own partition and
// re-propagates sharing afterwards. Callers that only hold a grant get
// a permission failure and no state changes.
func (uc *UseCase) mutateOwned(ctx context.Context, callerID, taskID string, fn func(*domain.Task)) (*domain.Task, error) {
	owned, err := uc.tasks.ListOwned(ctx, callerID)
	if err != nil {
		return nil, err
	}
	for i := range owned {
		if owned[i].ID != taskID {
			continue
		}
		fn(&owned[i])
		if err := uc.tasks.ReplaceOwned(ctx, callerID, owned); err != nil {
			return nil, err
		}
		if err := uc.propagateIfPaired(ctx, callerID); err != nil {
			return nil, err
		}
		result := owned[i]
		return &result, nil
	}
	return nil, uc.notOwnedError(ctx, callerID, taskID)
}

func (uc *UseCase) mutateOwnedBy(ctx context.Context, ownerID, taskID string, fn func(*domain.Task)) (*domain.Task, error) {
	owned, err := uc.tasks.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range owned {
		if owned[i].ID != taskID {
			continue
		}
		fn(&owned[i])
		if err := uc.tasks.ReplaceOwned(ctx, ownerID, owned); err != nil {
			return nil, err
		}
		result := owned[i]
		return &result, nil
	}
	return nil, domain.ErrTaskNotFound
}

// findTask locates a task in any partition, trying the caller's own
// partition first.
func (uc *UseCase) findTask(ctx context.Context, callerID, taskID string) (string, *domain.Task, error) {
	own, err := uc.tasks.ListOwned(ctx, callerID)
	if err != nil {
		return "", nil, err
	}
	for i := range own {
		if own[i].ID == taskID {
			return callerID, &own[i], nil
		}
	}

	owners, err := uc.tasks.Owners(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, owner := range owners {
		if owner == callerID {
			continue
		}
		others, err := uc.tasks.ListOwned(ctx, owner)
		if err != nil {
			return "", nil, err
		}
		for i := range others {
			if others[i].ID == taskID {
				return owner, &others[i], nil
			}
		}
	}
	return "", nil, domain.ErrTaskNotFound
}

// notOwnedError distinguishes "task does not exist" from "task exists
// but belongs to someone else".
func (uc *UseCase) notOwnedError(ctx context.Context, callerID, taskID string) error {
	if _, _, err := uc.findTask(ctx, callerID, taskID); err != nil {
		return err
	}
	return domain.ErrNotTaskOwner
}

func (uc *UseCase) activeBuddy(ctx context.Context, userID string) (*domain.BuddyRelation, error) {
	relations, err := uc.buddies.Relations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ActiveBuddy(relations), nil
}

func (uc *UseCase) propagateIfPaired(ctx context.Context, ownerID string) error {
	buddy, err := uc.activeBuddy(ctx, ownerID)
	if err != nil || buddy == nil {
		return err
	}
	return uc.sharing.Propagate(ctx, ownerID, buddy.UserID)
}
