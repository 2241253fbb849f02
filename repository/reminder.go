package repository

import (
	"context"

	"github.com/taskbuddy/backend/domain"
)

type ReminderRepository interface {
	History(ctx context.Context, userID, taskID string) (*domain.ReminderHistory, error)
	SaveHistory(ctx context.Context, history *domain.ReminderHistory) error
}
