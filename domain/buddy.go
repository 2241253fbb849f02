package domain

import "time"

// Buddy relation statuses.
const (
	BuddyStatusPending  = "pending"
	BuddyStatusAccepted = "accepted"
	BuddyStatusRejected = "rejected"
)

// BuddyRelation is one side of a pairing, stored in the owning user's
// partition. At most one relation may be active per user.
type BuddyRelation struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Status   string    `json:"status"`
	Since    time.Time `json:"since"`
	IsActive bool      `json:"is_active"`
}

func (b *BuddyRelation) IsAccepted() bool {
	return b != nil && b.Status == BuddyStatusAccepted
}

// ActiveBuddy returns the single active accepted relation, if any.
func ActiveBuddy(relations []BuddyRelation) *BuddyRelation {
	for i := range relations {
		if relations[i].IsActive && relations[i].IsAccepted() {
			return &relations[i]
		}
	}
	return nil
}

// BuddyRequest is a pending pairing request, visible in both the
// sender's and receiver's partitions until answered.
type BuddyRequest struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	ReceiverID  string    `json:"receiver_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
