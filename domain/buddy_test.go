package domain

import "testing"

func TestActiveBuddy(t *testing.T) {
	relations := []BuddyRelation{
		{UserID: "old", Status: BuddyStatusAccepted, IsActive: false},
		{UserID: "pending", Status: BuddyStatusPending, IsActive: true},
		{UserID: "current", Status: BuddyStatusAccepted, IsActive: true},
	}
	active := ActiveBuddy(relations)
	if active == nil || active.UserID != "current" {
		t.Fatalf("expected current, got %+v", active)
	}

	if ActiveBuddy(nil) != nil {
		t.Fatalf("empty relation list must have no active buddy")
	}
	if ActiveBuddy([]BuddyRelation{{UserID: "x", Status: BuddyStatusAccepted}}) != nil {
		t.Fatalf("inactive accepted relation must not count as active")
	}
}
