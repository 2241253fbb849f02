package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository/record"
)

type capturingNotifier struct {
	sent      []string
	dismissed []string
	sendErr   error
}

func (n *capturingNotifier) Send(ctx context.Context, recipientID, title, body, correlationTag string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, recipientID+"/"+correlationTag)
	return nil
}

func (n *capturingNotifier) Dismiss(ctx context.Context, recipientID, senderID string) error {
	n.dismissed = append(n.dismissed, recipientID+"/"+senderID)
	return nil
}

func newTestChat(t *testing.T) (*UseCase, *capturingNotifier) {
	t.Helper()
	notifier := &capturingNotifier{}
	uc := New(record.NewChatRepository(recordstore.NewMemory()), notifier, nil)
	return uc, notifier
}

func post(t *testing.T, uc *UseCase, sender, recipient, text string) *domain.Message {
	t.Helper()
	msg, err := uc.Post(context.Background(), PostInput{
		SenderID:    sender,
		SenderName:  sender,
		RecipientID: recipient,
		TaskID:      "t1",
		TaskTitle:   "Clean desk",
		Text:        text,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return msg
}

func TestPostIncrementsRecipientUnread(t *testing.T) {
	uc, notifier := newTestChat(t)
	ctx := context.Background()

	post(t, uc, "alice", "bob", "first")
	post(t, uc, "alice", "bob", "second")
	post(t, uc, "alice", "bob", "third")

	key := domain.ConversationKey("alice", "bob", "t1")
	counts, err := uc.UnreadCounts(ctx, "bob")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if counts[key] != 3 {
		t.Fatalf("want unread 3, got %d", counts[key])
	}

	// The sender's own counters stay untouched.
	senderCounts, err := uc.UnreadCounts(ctx, "alice")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(senderCounts) != 0 {
		t.Fatalf("sender unread must stay empty, got %v", senderCounts)
	}

	if len(notifier.sent) != 3 {
		t.Fatalf("want 3 delivery requests, got %d", len(notifier.sent))
	}
}

func TestPostPrependsNewestFirst(t *testing.T) {
	uc, _ := newTestChat(t)
	ctx := context.Background()

	post(t, uc, "alice", "bob", "first")
	post(t, uc, "bob", "alice", "second")

	key := domain.ConversationKey("alice", "bob", "t1")
	log, err := uc.Log(ctx, key)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("want 2 messages, got %d", len(log))
	}
	if log[0].Text != "second" || log[1].Text != "first" {
		t.Fatalf("log must be newest first: %q, %q", log[0].Text, log[1].Text)
	}
}

func TestPostValidation(t *testing.T) {
	uc, _ := newTestChat(t)
	ctx := context.Background()

	if _, err := uc.Post(ctx, PostInput{SenderID: "a", RecipientID: "b", Text: "   "}); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("blank text: want ErrInvalidPayload, got %v", err)
	}
	if _, err := uc.Post(ctx, PostInput{SenderID: "a", RecipientID: "a", Text: "hi"}); !errors.Is(err, domain.ErrSelfBuddy) {
		t.Fatalf("self message: want ErrSelfBuddy, got %v", err)
	}
}

func TestPostSurvivesNotifierFailure(t *testing.T) {
	uc, notifier := newTestChat(t)
	notifier.sendErr = errors.New("outbox down")

	msg := post(t, uc, "alice", "bob", "still delivered")
	if msg == nil {
		t.Fatalf("message must be stored despite notifier failure")
	}

	key := domain.ConversationKey("alice", "bob", "t1")
	counts, err := uc.UnreadCounts(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if counts[key] != 1 {
		t.Fatalf("unread must still increment, got %d", counts[key])
	}
}

func TestMarkReadClearsUnreadAndFlagsForeignMessages(t *testing.T) {
	uc, notifier := newTestChat(t)
	ctx := context.Background()

	post(t, uc, "alice", "bob", "one")
	post(t, uc, "alice", "bob", "two")
	post(t, uc, "bob", "alice", "reply")

	key := domain.ConversationKey("alice", "bob", "t1")
	if err := uc.MarkRead(ctx, key, "bob"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	counts, err := uc.UnreadCounts(ctx, "bob")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if _, ok := counts[key]; ok {
		t.Fatalf("unread entry must be removed, got %v", counts)
	}

	log, err := uc.Log(ctx, key)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	for _, msg := range log {
		if msg.SenderID == "alice" && !msg.Read {
			t.Fatalf("foreign message %q must be read", msg.Text)
		}
		if msg.SenderID == "bob" && msg.Read {
			t.Fatalf("own message %q must stay unread", msg.Text)
		}
	}

	if len(notifier.dismissed) != 1 || notifier.dismissed[0] != "bob/alice" {
		t.Fatalf("want one dismissal for bob/alice, got %v", notifier.dismissed)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	uc, _ := newTestChat(t)
	ctx := context.Background()

	post(t, uc, "alice", "bob", "hello")
	key := domain.ConversationKey("alice", "bob", "t1")

	for i := 0; i < 3; i++ {
		if err := uc.MarkRead(ctx, key, "bob"); err != nil {
			t.Fatalf("mark read %d: %v", i, err)
		}
	}

	counts, err := uc.UnreadCounts(ctx, "bob")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("repeated mark read must not resurrect counters: %v", counts)
	}
}

func TestConversationsAreIsolatedPerTask(t *testing.T) {
	uc, _ := newTestChat(t)
	ctx := context.Background()

	if _, err := uc.Post(ctx, PostInput{SenderID: "alice", SenderName: "alice", RecipientID: "bob", TaskID: "t1", Text: "about t1", At: time.Now()}); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := uc.Post(ctx, PostInput{SenderID: "alice", SenderName: "alice", RecipientID: "bob", TaskID: "t2", Text: "about t2", At: time.Now()}); err != nil {
		t.Fatalf("post: %v", err)
	}

	counts, err := uc.UnreadCounts(ctx, "bob")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("want two conversation counters, got %v", counts)
	}
}
