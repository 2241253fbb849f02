package recordstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("record not found")

// Store is a per-owner durable key-value store. Reads and writes are
// atomic at single-key granularity only; no multi-key transactions are
// offered to callers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Key shapes for every persisted category.
func TasksKey(ownerID string) string    { return "tasks:" + ownerID }
func BuddiesKey(ownerID string) string  { return "buddies:" + ownerID }
func RequestsKey(ownerID string) string { return "buddyRequests:" + ownerID }
func UnreadKey(ownerID string) string   { return "unread:" + ownerID }
func UserKey(ownerID string) string     { return "users:" + ownerID }
func ChatKey(conversationKey string) string {
	return "chat:" + conversationKey
}
func ReminderHistoryKey(ownerID, taskID string) string {
	return fmt.Sprintf("reminderHistory:%s_%s", ownerID, taskID)
}
func LastCheckKey(ownerID string) string {
	return "lastEngagementCheck:" + ownerID
}
func LastSentKey(ownerID string) string {
	return "lastEncouragementSent:" + ownerID
}

// Prefixes used for partition discovery scans.
const (
	TasksPrefix   = "tasks:"
	BuddiesPrefix = "buddies:"
	UsersPrefix   = "users:"
)

// OwnerFromKey strips a category prefix from a discovered key.
func OwnerFromKey(key, prefix string) string {
	if len(key) <= len(prefix) {
		return ""
	}
	return key[len(prefix):]
}
