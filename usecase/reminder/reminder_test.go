package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository/record"
)

func newTestUseCase() *UseCase {
	return New(record.NewReminderRepository(recordstore.NewMemory()), nil)
}

func at(hour int) time.Time {
	return time.Date(2026, time.March, 10, hour, 30, 0, 0, time.UTC)
}

func TestBestTimeWithoutHistory(t *testing.T) {
	uc := newTestUseCase()
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)

	best, err := uc.BestTime(context.Background(), "alice", "t1", now)
	if err != nil {
		t.Fatalf("best time: %v", err)
	}
	want := time.Date(2026, time.March, 10, DefaultHour, 0, 0, 0, time.UTC)
	if !best.Equal(want) {
		t.Fatalf("want default %v, got %v", want, best)
	}
}

func TestBestTimePicksModalHour(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	for _, ts := range []time.Time{at(9), at(9), at(14)} {
		if err := uc.RecordSuccess(ctx, "alice", "t1", ts); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	best, err := uc.BestTime(ctx, "alice", "t1", now)
	if err != nil {
		t.Fatalf("best time: %v", err)
	}
	want := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	if !best.Equal(want) {
		t.Fatalf("want %v, got %v", want, best)
	}
}

func TestBestTimeRollsToNextDay(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	if err := uc.RecordSuccess(ctx, "alice", "t1", at(9)); err != nil {
		t.Fatalf("record: %v", err)
	}

	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	best, err := uc.BestTime(ctx, "alice", "t1", now)
	if err != nil {
		t.Fatalf("best time: %v", err)
	}
	want := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	if !best.Equal(want) {
		t.Fatalf("want next-day %v, got %v", want, best)
	}
}

func TestBestTimeTieGoesToSmallestHour(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	for _, ts := range []time.Time{at(17), at(8), at(17), at(8)} {
		if err := uc.RecordSuccess(ctx, "alice", "t1", ts); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	now := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	best, err := uc.BestTime(ctx, "alice", "t1", now)
	if err != nil {
		t.Fatalf("best time: %v", err)
	}
	if best.Hour() != 8 {
		t.Fatalf("tie must resolve to the smallest hour, got %d", best.Hour())
	}
}

func TestFailuresDoNotAffectBestTime(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()
	if err := uc.RecordSuccess(ctx, "alice", "t1", at(9)); err != nil {
		t.Fatalf("record success: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := uc.RecordFailure(ctx, "alice", "t1", at(20)); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	now := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)
	best, err := uc.BestTime(ctx, "alice", "t1", now)
	if err != nil {
		t.Fatalf("best time: %v", err)
	}
	if best.Hour() != 9 {
		t.Fatalf("failures must not influence the estimate, got hour %d", best.Hour())
	}
}
