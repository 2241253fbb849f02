package domain

import (
	"sort"
	"strings"
	"time"
)

// Message is one entry in a two-party, single-task conversation log.
// Logs are stored newest first.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	TaskID     string    `json:"task_id,omitempty"`
	TaskTitle  string    `json:"task_title,omitempty"`
	Read       bool      `json:"read"`
}

// ConversationKey derives the deterministic thread identifier for two
// participants and a task. Both sides compute the same key without
// coordination: sorted participant ids, then the task id.
func ConversationKey(a, b, taskID string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join([]string{pair[0], pair[1], taskID}, "_")
}

// ReminderHistory holds past reminder outcomes for one (user, task)
// pair. Unsuccessful times are recorded but not consulted yet.
type ReminderHistory struct {
	UserID            string      `json:"user_id"`
	TaskID            string      `json:"task_id"`
	SuccessfulTimes   []time.Time `json:"successful_times"`
	UnsuccessfulTimes []time.Time `json:"unsuccessful_times"`
}
