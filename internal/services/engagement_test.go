package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
	"github.com/taskbuddy/backend/repository/record"
	chatUC "github.com/taskbuddy/backend/usecase/chat"
)

type monitorFixture struct {
	monitor *EngagementMonitor
	chat    *chatUC.UseCase
	users   repository.UserRepository
	buddies repository.BuddyRepository
	tasks   repository.TaskRepository
	state   repository.EngagementRepository
}

func newMonitorFixture(t *testing.T) *monitorFixture {
	t.Helper()
	store := recordstore.NewMemory()
	users := record.NewUserRepository(store)
	tasks := record.NewTaskRepository(store)
	buddies := record.NewBuddyRepository(store)
	state := record.NewEngagementRepository(store)
	chat := chatUC.New(record.NewChatRepository(store), nil, nil)

	cfg := MonitorConfig{
		Interval:          time.Minute,
		CongratsCooldown:  6 * time.Hour,
		EncourageCooldown: 12 * time.Hour,
		StaleAfter:        24 * time.Hour,
	}
	return &monitorFixture{
		monitor: NewEngagementMonitor(tasks, buddies, users, state, chat, nil, cfg),
		chat:    chat,
		users:   users,
		buddies: buddies,
		tasks:   tasks,
		state:   state,
	}
}

func (f *monitorFixture) pairUsers(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		if err := f.users.Save(ctx, &domain.User{ID: pair[0], Name: pair[0], Email: pair[0] + "@example.com"}); err != nil {
			t.Fatalf("save %s: %v", pair[0], err)
		}
		relation := domain.BuddyRelation{
			UserID:   pair[1],
			Name:     pair[1],
			Status:   domain.BuddyStatusAccepted,
			Since:    now,
			IsActive: true,
		}
		if err := f.buddies.ReplaceRelations(ctx, pair[0], []domain.BuddyRelation{relation}); err != nil {
			t.Fatalf("pair %s: %v", pair[0], err)
		}
	}
}

func (f *monitorFixture) conversation(t *testing.T, viewer, buddy, taskID string) []domain.Message {
	t.Helper()
	key := domain.ConversationKey(viewer, buddy, taskID)
	log, err := f.chat.Log(context.Background(), key)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	return log
}

func TestTickCongratulatesFreshCompletion(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	f.pairUsers(t, "alice", "bob")

	now := time.Now()
	done := now.Add(-time.Minute)
	if err := f.tasks.ReplaceOwned(ctx, "bob", []domain.Task{{
		ID:          "b1",
		OwnerID:     "bob",
		Title:       "Run 5k",
		Completed:   true,
		CreatedAt:   now.Add(-time.Hour),
		CompletedAt: &done,
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.monitor.Tick(ctx, "alice", now); err != nil {
		t.Fatalf("tick: %v", err)
	}

	log := f.conversation(t, "alice", "bob", "b1")
	if len(log) != 1 {
		t.Fatalf("want one congratulation, got %d messages", len(log))
	}
	if !strings.Contains(log[0].Text, "Great job completing") {
		t.Fatalf("unexpected message: %q", log[0].Text)
	}
	if log[0].SenderID != "alice" {
		t.Fatalf("congratulation must come from the viewer, got %s", log[0].SenderID)
	}
}

func TestTickDoesNotRepeatCongratulation(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	f.pairUsers(t, "alice", "bob")

	now := time.Now()
	done := now.Add(-time.Minute)
	if err := f.tasks.ReplaceOwned(ctx, "bob", []domain.Task{{
		ID:          "b1",
		OwnerID:     "bob",
		Title:       "Run 5k",
		Completed:   true,
		CreatedAt:   now.Add(-time.Hour),
		CompletedAt: &done,
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.monitor.Tick(ctx, "alice", now); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if err := f.monitor.Tick(ctx, "alice", now.Add(time.Minute)); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	log := f.conversation(t, "alice", "bob", "b1")
	if len(log) != 1 {
		t.Fatalf("completion before the last scan must not be re-congratulated, got %d messages", len(log))
	}
}

func TestTickEncouragesStaleTaskOncePerCooldown(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	f.pairUsers(t, "alice", "bob")

	now := time.Now()
	if err := f.tasks.ReplaceOwned(ctx, "bob", []domain.Task{{
		ID:        "b1",
		OwnerID:   "bob",
		Title:     "Write essay",
		CreatedAt: now.Add(-48 * time.Hour),
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.monitor.Tick(ctx, "alice", now); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if err := f.monitor.Tick(ctx, "alice", now.Add(time.Hour)); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	log := f.conversation(t, "alice", "bob", "b1")
	if len(log) != 1 {
		t.Fatalf("cooldown must suppress the second encouragement, got %d messages", len(log))
	}
	if !strings.Contains(log[0].Text, "How's it going") {
		t.Fatalf("unexpected message: %q", log[0].Text)
	}

	// Past the cooldown the nudge repeats.
	if err := f.monitor.Tick(ctx, "alice", now.Add(13*time.Hour)); err != nil {
		t.Fatalf("third tick: %v", err)
	}
	log = f.conversation(t, "alice", "bob", "b1")
	if len(log) != 2 {
		t.Fatalf("want a second encouragement after the cooldown, got %d messages", len(log))
	}
}

func TestTickEncouragesNeverWorkedTask(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	f.pairUsers(t, "alice", "bob")

	// Created recently but never touched: no activity timestamp at all.
	now := time.Now()
	if err := f.tasks.ReplaceOwned(ctx, "bob", []domain.Task{{
		ID:        "b1",
		OwnerID:   "bob",
		Title:     "Write essay",
		CreatedAt: now.Add(-time.Hour),
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.monitor.Tick(ctx, "alice", now); err != nil {
		t.Fatalf("tick: %v", err)
	}

	log := f.conversation(t, "alice", "bob", "b1")
	if len(log) != 1 {
		t.Fatalf("want 1 encouragement, got %d messages", len(log))
	}
	if !strings.Contains(log[0].Text, "How's it going") {
		t.Fatalf("unexpected message: %q", log[0].Text)
	}
}

func TestTickWithoutActiveBuddyOnlyAdvancesClock(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	if err := f.users.Save(ctx, &domain.User{ID: "alice", Name: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.buddies.ReplaceRelations(ctx, "alice", []domain.BuddyRelation{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	now := time.Now()
	if err := f.monitor.Tick(ctx, "alice", now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	lastCheck, err := f.state.LastCheck(ctx, "alice")
	if err != nil {
		t.Fatalf("last check: %v", err)
	}
	if !lastCheck.Equal(now) {
		t.Fatalf("want last check %v, got %v", now, lastCheck)
	}
}

func TestTickSkipsWhenAlreadyScanned(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	f.pairUsers(t, "alice", "bob")

	now := time.Now()
	if err := f.state.SetLastCheck(ctx, "alice", now.Add(time.Minute)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := f.tasks.ReplaceOwned(ctx, "bob", []domain.Task{{
		ID:        "b1",
		OwnerID:   "bob",
		Title:     "Write essay",
		CreatedAt: now.Add(-48 * time.Hour),
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.monitor.Tick(ctx, "alice", now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	log := f.conversation(t, "alice", "bob", "b1")
	if len(log) != 0 {
		t.Fatalf("an already covered window must not post, got %d messages", len(log))
	}
}

func TestSweepCoversEveryRelationOwner(t *testing.T) {
	f := newMonitorFixture(t)
	ctx := context.Background()
	f.pairUsers(t, "alice", "bob")

	now := time.Now()
	if err := f.monitor.Sweep(ctx, now); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for _, userID := range []string{"alice", "bob"} {
		lastCheck, err := f.state.LastCheck(ctx, userID)
		if err != nil {
			t.Fatalf("last check %s: %v", userID, err)
		}
		if !lastCheck.Equal(now) {
			t.Fatalf("%s must have been scanned, got %v", userID, lastCheck)
		}
	}
}
