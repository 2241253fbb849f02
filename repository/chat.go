package repository

import (
	"context"

	"github.com/taskbuddy/backend/domain"
)

// ChatRepository stores one log per conversation key (newest message
// first) and one unread-count map per user. The two live under
// independent keys; the tracker deliberately writes them separately.
type ChatRepository interface {
	Log(ctx context.Context, conversationKey string) ([]domain.Message, error)
	ReplaceLog(ctx context.Context, conversationKey string, messages []domain.Message) error

	Unread(ctx context.Context, ownerID string) (map[string]int, error)
	ReplaceUnread(ctx context.Context, ownerID string, counts map[string]int) error
}
