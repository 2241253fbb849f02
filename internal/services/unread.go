package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/repository"
	chatUC "github.com/taskbuddy/backend/usecase/chat"
)

// UnreadRefresher maintains an in-process snapshot of every user's
// unread counts, refreshed on a fast schedule so badge reads never hit
// storage on the hot path.
type UnreadRefresher struct {
	users  repository.UserRepository
	chat   *chatUC.UseCase
	logger *zap.Logger
	cron   *cron.Cron

	mu       sync.RWMutex
	snapshot map[string]map[string]int
}

func NewUnreadRefresher(users repository.UserRepository, chat *chatUC.UseCase, logger *zap.Logger, interval time.Duration) *UnreadRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &UnreadRefresher{
		users:    users,
		chat:     chat,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
		snapshot: make(map[string]map[string]int),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := r.Refresh(ctx); err != nil {
			r.logger.Error("unread refresh failed", zap.Error(err))
		}
	})

	return r
}

func (r *UnreadRefresher) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("unread refresher started")
}

func (r *UnreadRefresher) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("unread refresher stopped")
}

// Refresh reloads every user's unread counts into the snapshot.
func (r *UnreadRefresher) Refresh(ctx context.Context) error {
	users, err := r.users.List(ctx)
	if err != nil {
		return err
	}
	next := make(map[string]map[string]int, len(users))
	for _, user := range users {
		counts, err := r.chat.UnreadCounts(ctx, user.ID)
		if err != nil {
			r.logger.Warn("unread load failed", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}
		next[user.ID] = counts
	}

	r.mu.Lock()
	r.snapshot = next
	r.mu.Unlock()
	return nil
}

// Snapshot returns the cached counts for the user, falling back to a
// live read when the user has not been refreshed yet.
func (r *UnreadRefresher) Snapshot(ctx context.Context, userID string) (map[string]int, error) {
	r.mu.RLock()
	counts, ok := r.snapshot[userID]
	r.mu.RUnlock()
	if ok {
		out := make(map[string]int, len(counts))
		for key, count := range counts {
			out[key] = count
		}
		return out, nil
	}
	return r.chat.UnreadCounts(ctx, userID)
}
