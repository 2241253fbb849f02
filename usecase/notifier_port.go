package usecase

import "context"

// Notifier hands notifications to the external delivery capability.
// Send requests delivery to a recipient; Dismiss retracts everything a
// given sender has pending for that recipient (used when the recipient
// opens the conversation).
type Notifier interface {
	Send(ctx context.Context, recipientID, title, body, correlationTag string) error
	Dismiss(ctx context.Context, recipientID, senderID string) error
}
