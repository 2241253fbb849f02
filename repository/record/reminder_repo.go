package record

import (
	"context"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
)

type reminderRepository struct {
	store recordstore.Store
}

func NewReminderRepository(store recordstore.Store) repository.ReminderRepository {
	return &reminderRepository{store: store}
}

func (r *reminderRepository) History(ctx context.Context, userID, taskID string) (*domain.ReminderHistory, error) {
	history := &domain.ReminderHistory{UserID: userID, TaskID: taskID}
	if _, err := readJSON(ctx, r.store, recordstore.ReminderHistoryKey(userID, taskID), history); err != nil {
		return nil, err
	}
	return history, nil
}

func (r *reminderRepository) SaveHistory(ctx context.Context, history *domain.ReminderHistory) error {
	if history == nil || history.UserID == "" || history.TaskID == "" {
		return domain.ErrInvalidPayload
	}
	return writeJSON(ctx, r.store, recordstore.ReminderHistoryKey(history.UserID, history.TaskID), history)
}
