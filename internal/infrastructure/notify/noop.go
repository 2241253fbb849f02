package notify

import (
	"context"

	"github.com/taskbuddy/backend/usecase"
)

// Noop drops every notification. Used in tests and when no outbox is
// configured.
type Noop struct{}

func (Noop) Send(ctx context.Context, recipientID, title, body, correlationTag string) error {
	return nil
}

func (Noop) Dismiss(ctx context.Context, recipientID, senderID string) error {
	return nil
}

var _ usecase.Notifier = Noop{}
