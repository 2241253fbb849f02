package domain

import "time"

// Task represents a user-owned activity item. Only the owner may toggle
// completion; SharedWith grants read/encourage access and is fully
// determined by the owner's current buddy pairing.
type Task struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	Title          string     `json:"title"`
	Completed      bool       `json:"completed"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	Attempts       int        `json:"attempts"`
	SharedWith     []string   `json:"shared_with,omitempty"`
	SubTasks       []Task     `json:"sub_tasks,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// IsSharedWith reports whether the given user has a visibility grant.
func (t *Task) IsSharedWith(userID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// IsStale reports whether the task has seen no activity within the
// window. A task that has never been worked on counts as stale.
func (t *Task) IsStale(now time.Time, window time.Duration) bool {
	if t == nil || t.Completed {
		return false
	}
	if t.LastActivityAt == nil {
		return true
	}
	return now.Sub(*t.LastActivityAt) > window
}
