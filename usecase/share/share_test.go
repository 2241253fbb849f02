package share

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
	"github.com/taskbuddy/backend/repository/record"
)

func newTestShare(t *testing.T) (*UseCase, repository.TaskRepository) {
	t.Helper()
	tasks := record.NewTaskRepository(recordstore.NewMemory())
	return New(tasks, nil), tasks
}

func seedTasks(t *testing.T, tasks repository.TaskRepository, ownerID string, titles ...string) {
	t.Helper()
	owned := make([]domain.Task, 0, len(titles))
	for _, title := range titles {
		owned = append(owned, domain.Task{
			ID:        ownerID + "-" + title,
			OwnerID:   ownerID,
			Title:     title,
			CreatedAt: time.Now(),
		})
	}
	if err := tasks.ReplaceOwned(context.Background(), ownerID, owned); err != nil {
		t.Fatalf("seed %s: %v", ownerID, err)
	}
}

func TestPropagateSharesBothDirections(t *testing.T) {
	uc, tasks := newTestShare(t)
	ctx := context.Background()
	seedTasks(t, tasks, "alice", "a1", "a2")
	seedTasks(t, tasks, "bob", "b1")

	if err := uc.Propagate(ctx, "alice", "bob"); err != nil {
		t.Fatalf("propagate: %v", err)
	}

	aliceTasks, err := tasks.ListOwned(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, task := range aliceTasks {
		if !reflect.DeepEqual(task.SharedWith, []string{"bob"}) {
			t.Fatalf("alice task %s: want shared with bob, got %v", task.ID, task.SharedWith)
		}
	}

	bobTasks, err := tasks.ListOwned(ctx, "bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, task := range bobTasks {
		if !reflect.DeepEqual(task.SharedWith, []string{"alice"}) {
			t.Fatalf("bob task %s: want shared with alice, got %v", task.ID, task.SharedWith)
		}
	}
}

func TestPropagateIsIdempotent(t *testing.T) {
	uc, tasks := newTestShare(t)
	ctx := context.Background()
	seedTasks(t, tasks, "alice", "a1")
	seedTasks(t, tasks, "bob", "b1")

	if err := uc.Propagate(ctx, "alice", "bob"); err != nil {
		t.Fatalf("first propagate: %v", err)
	}
	once, err := tasks.ListOwned(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := uc.Propagate(ctx, "alice", "bob"); err != nil {
		t.Fatalf("second propagate: %v", err)
	}
	twice, err := tasks.ListOwned(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("propagation must be idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestPropagateOverwritesPreviousGrants(t *testing.T) {
	uc, tasks := newTestShare(t)
	ctx := context.Background()

	stale := []domain.Task{{
		ID:         "a-1",
		OwnerID:    "alice",
		Title:      "carried over",
		SharedWith: []string{"old-buddy"},
		SubTasks: []domain.Task{{
			ID:         "a-1-1",
			OwnerID:    "alice",
			Title:      "step",
			SharedWith: []string{"old-buddy"},
		}},
	}}
	if err := tasks.ReplaceOwned(ctx, "alice", stale); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seedTasks(t, tasks, "bob", "b1")

	if err := uc.Propagate(ctx, "alice", "bob"); err != nil {
		t.Fatalf("propagate: %v", err)
	}

	owned, err := tasks.ListOwned(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(owned[0].SharedWith, []string{"bob"}) {
		t.Fatalf("grant must be redirected to bob, got %v", owned[0].SharedWith)
	}
	if !reflect.DeepEqual(owned[0].SubTasks[0].SharedWith, []string{"bob"}) {
		t.Fatalf("sub-task grant must follow, got %v", owned[0].SubTasks[0].SharedWith)
	}
}

func TestPropagateRejectsBadPairs(t *testing.T) {
	uc, _ := newTestShare(t)
	ctx := context.Background()

	if err := uc.Propagate(ctx, "alice", "alice"); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("self pair: want ErrInvalidPayload, got %v", err)
	}
	if err := uc.Propagate(ctx, "", "bob"); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("empty owner: want ErrInvalidPayload, got %v", err)
	}
}
