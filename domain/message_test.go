package domain

import "testing"

func TestConversationKeySymmetry(t *testing.T) {
	a := ConversationKey("user-b", "user-a", "task-1")
	b := ConversationKey("user-a", "user-b", "task-1")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
	if a != "user-a_user-b_task-1" {
		t.Fatalf("unexpected key shape: %q", a)
	}
}

func TestConversationKeySeparatesTasks(t *testing.T) {
	first := ConversationKey("user-a", "user-b", "task-1")
	second := ConversationKey("user-a", "user-b", "task-2")
	if first == second {
		t.Fatalf("different tasks must produce different keys, both %q", first)
	}
}
