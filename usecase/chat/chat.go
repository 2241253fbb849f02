// Package chat tracks two-party, single-task conversations and the
// per-recipient unread counters that accompany them.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/repository"
	"github.com/taskbuddy/backend/usecase"
)

type UseCase struct {
	chats    repository.ChatRepository
	notifier usecase.Notifier
	logger   *zap.Logger
}

func New(chats repository.ChatRepository, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		chats:    chats,
		notifier: notifier,
		logger:   logger,
	}
}

// PostInput describes one outgoing message.
type PostInput struct {
	SenderID   string
	SenderName string
	// RecipientID is the other conversation participant; the unread
	// increment and the notification go to them.
	RecipientID string
	TaskID      string
	TaskTitle   string
	Text        string
	// At defaults to time.Now when zero.
	At time.Time
}

// Post prepends the message to the conversation log, then increments
// the recipient's unread counter, then requests delivery. The log and
// counter writes are two independent single-key operations; a failure
// between them is surfaced and left for the next retry to converge.
func (uc *UseCase) Post(ctx context.Context, in PostInput) (*domain.Message, error) {
	if strings.TrimSpace(in.Text) == "" || in.SenderID == "" || in.RecipientID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if in.SenderID == in.RecipientID {
		return nil, domain.ErrSelfBuddy
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}

	key := domain.ConversationKey(in.SenderID, in.RecipientID, in.TaskID)
	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   in.SenderID,
		SenderName: in.SenderName,
		Text:       strings.TrimSpace(in.Text),
		Timestamp:  in.At,
		TaskID:     in.TaskID,
		TaskTitle:  in.TaskTitle,
	}

	log, err := uc.chats.Log(ctx, key)
	if err != nil {
		return nil, err
	}
	log = append([]domain.Message{msg}, log...)
	if err := uc.chats.ReplaceLog(ctx, key, log); err != nil {
		return nil, err
	}

	counts, err := uc.chats.Unread(ctx, in.RecipientID)
	if err != nil {
		return nil, err
	}
	counts[key]++
	if err := uc.chats.ReplaceUnread(ctx, in.RecipientID, counts); err != nil {
		return nil, err
	}

	uc.requestNotification(ctx, in, msg)
	return &msg, nil
}

// MarkRead flags every foreign message in the conversation as read,
// drops the reader's unread entry for the key and retracts pending
// notifications from the other participants. Idempotent.
func (uc *UseCase) MarkRead(ctx context.Context, conversationKey, readerID string) error {
	log, err := uc.chats.Log(ctx, conversationKey)
	if err != nil {
		return err
	}

	senders := make(map[string]struct{})
	changed := false
	for i := range log {
		if log[i].SenderID == readerID {
			continue
		}
		senders[log[i].SenderID] = struct{}{}
		if !log[i].Read {
			log[i].Read = true
			changed = true
		}
	}
	if changed {
		if err := uc.chats.ReplaceLog(ctx, conversationKey, log); err != nil {
			return err
		}
	}

	counts, err := uc.chats.Unread(ctx, readerID)
	if err != nil {
		return err
	}
	if _, ok := counts[conversationKey]; ok {
		delete(counts, conversationKey)
		if err := uc.chats.ReplaceUnread(ctx, readerID, counts); err != nil {
			return err
		}
	}

	if uc.notifier != nil {
		for sender := range senders {
			if err := uc.notifier.Dismiss(ctx, readerID, sender); err != nil {
				uc.logger.Warn("notification dismiss failed",
					zap.String("reader_id", readerID),
					zap.String("sender_id", sender),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Log returns the conversation, newest message first.
func (uc *UseCase) Log(ctx context.Context, conversationKey string) ([]domain.Message, error) {
	return uc.chats.Log(ctx, conversationKey)
}

// UnreadCounts returns the outstanding unread count per conversation
// key for the user.
func (uc *UseCase) UnreadCounts(ctx context.Context, userID string) (map[string]int, error) {
	return uc.chats.Unread(ctx, userID)
}

func (uc *UseCase) requestNotification(ctx context.Context, in PostInput, msg domain.Message) {
	if uc.notifier == nil {
		return
	}
	title := fmt.Sprintf("New message from %s", in.SenderName)
	body := msg.Text
	if in.TaskTitle != "" {
		body = fmt.Sprintf("Re: %s\n%s", in.TaskTitle, msg.Text)
	}
	if err := uc.notifier.Send(ctx, in.RecipientID, title, body, in.SenderID); err != nil {
		uc.logger.Warn("notification request failed",
			zap.String("recipient_id", in.RecipientID),
			zap.Error(err))
	}
}
