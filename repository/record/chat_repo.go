package record

import (
	"context"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
)

type chatRepository struct {
	store recordstore.Store
}

func NewChatRepository(store recordstore.Store) repository.ChatRepository {
	return &chatRepository{store: store}
}

func (r *chatRepository) Log(ctx context.Context, conversationKey string) ([]domain.Message, error) {
	var messages []domain.Message
	if _, err := readJSON(ctx, r.store, recordstore.ChatKey(conversationKey), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) ReplaceLog(ctx context.Context, conversationKey string, messages []domain.Message) error {
	if messages == nil {
		messages = []domain.Message{}
	}
	return writeJSON(ctx, r.store, recordstore.ChatKey(conversationKey), messages)
}

func (r *chatRepository) Unread(ctx context.Context, ownerID string) (map[string]int, error) {
	counts := make(map[string]int)
	if _, err := readJSON(ctx, r.store, recordstore.UnreadKey(ownerID), &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *chatRepository) ReplaceUnread(ctx context.Context, ownerID string, counts map[string]int) error {
	if counts == nil {
		counts = map[string]int{}
	}
	return writeJSON(ctx, r.store, recordstore.UnreadKey(ownerID), counts)
}
