package domain

import (
	"testing"
	"time"
)

func TestIsSharedWith(t *testing.T) {
	task := Task{ID: "t1", OwnerID: "a", SharedWith: []string{"b"}}
	if !task.IsSharedWith("b") {
		t.Fatalf("expected grant for b")
	}
	if task.IsSharedWith("c") {
		t.Fatalf("unexpected grant for c")
	}
}

func TestIsStale(t *testing.T) {
	now := time.Now()
	window := 24 * time.Hour

	never := Task{CreatedAt: now.Add(-time.Hour)}
	if !never.IsStale(now, window) {
		t.Fatalf("task that was never worked on must be stale")
	}

	recent := now.Add(-time.Hour)
	touched := Task{CreatedAt: now.Add(-48 * time.Hour), LastActivityAt: &recent}
	if touched.IsStale(now, window) {
		t.Fatalf("recent activity must reset staleness")
	}

	idle := now.Add(-48 * time.Hour)
	abandoned := Task{CreatedAt: now.Add(-72 * time.Hour), LastActivityAt: &idle}
	if !abandoned.IsStale(now, window) {
		t.Fatalf("task idle for two days must be stale")
	}

	done := Task{CreatedAt: now.Add(-48 * time.Hour), Completed: true}
	if done.IsStale(now, window) {
		t.Fatalf("completed tasks are never stale")
	}
}
