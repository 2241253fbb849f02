package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/repository"
	chatUC "github.com/taskbuddy/backend/usecase/chat"
)

// MonitorConfig controls the engagement scan cadence and windows.
type MonitorConfig struct {
	Interval time.Duration
	// CongratsCooldown is the minimum gap between congratulation
	// messages for the same conversation key.
	CongratsCooldown time.Duration
	// EncourageCooldown is the minimum gap between encouragement
	// messages for the same conversation key.
	EncourageCooldown time.Duration
	// StaleAfter is how long a task may sit without activity before it
	// counts as stagnant.
	StaleAfter time.Duration
}

// EngagementMonitor periodically scans buddy-owned tasks on behalf of
// each user and posts congratulation or encouragement messages through
// the conversation tracker. Cooldown state and the last-scan timestamp
// are per viewing user, so two users watching the same conversation
// apply independent cooldowns.
type EngagementMonitor struct {
	tasks   repository.TaskRepository
	buddies repository.BuddyRepository
	users   repository.UserRepository
	state   repository.EngagementRepository
	chat    *chatUC.UseCase
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     MonitorConfig
}

func NewEngagementMonitor(
	tasks repository.TaskRepository,
	buddies repository.BuddyRepository,
	users repository.UserRepository,
	state repository.EngagementRepository,
	chat *chatUC.UseCase,
	logger *zap.Logger,
	cfg MonitorConfig,
) *EngagementMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.CongratsCooldown <= 0 {
		cfg.CongratsCooldown = 6 * time.Hour
	}
	if cfg.EncourageCooldown <= 0 {
		cfg.EncourageCooldown = 12 * time.Hour
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &EngagementMonitor{
		tasks:   tasks,
		buddies: buddies,
		users:   users,
		state:   state,
		chat:    chat,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = m.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := m.Sweep(ctx, time.Now()); err != nil {
			m.logger.Error("engagement sweep failed", zap.Error(err))
		}
	})

	return m
}

// Start launches the cron scheduler.
func (m *EngagementMonitor) Start() {
	if m == nil || m.cron == nil {
		return
	}
	m.cron.Start()
	m.logger.Info("engagement monitor started")
}

// Stop gracefully stops the scheduler.
func (m *EngagementMonitor) Stop(ctx context.Context) {
	if m == nil || m.cron == nil {
		return
	}
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	m.logger.Info("engagement monitor stopped")
}

// Sweep runs one Tick for every user holding a relation partition.
func (m *EngagementMonitor) Sweep(ctx context.Context, now time.Time) error {
	owners, err := m.buddies.RelationOwners(ctx)
	if err != nil {
		return err
	}
	for _, userID := range owners {
		if err := m.Tick(ctx, userID, now); err != nil {
			m.logger.Warn("engagement tick failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
	return nil
}

// Tick scans the user's buddy tasks once. Also invoked opportunistically
// when the task list changes.
func (m *EngagementMonitor) Tick(ctx context.Context, userID string, now time.Time) error {
	lastCheck, err := m.state.LastCheck(ctx, userID)
	if err != nil {
		return err
	}
	// Overlapping ticks: a newer scan already covered this window.
	if !lastCheck.Before(now) {
		return nil
	}

	relations, err := m.buddies.Relations(ctx, userID)
	if err != nil {
		return err
	}
	buddy := domain.ActiveBuddy(relations)
	if buddy == nil {
		return m.state.SetLastCheck(ctx, userID, now)
	}

	viewer, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	buddyTasks, err := m.tasks.ListOwned(ctx, buddy.UserID)
	if err != nil {
		return err
	}
	lastSent, err := m.state.LastSent(ctx, userID)
	if err != nil {
		return err
	}

	for _, task := range buddyTasks {
		switch {
		case task.Completed && task.CompletedAt != nil && task.CompletedAt.After(lastCheck):
			m.encourage(ctx, viewer, buddy, task, now, lastSent, m.cfg.CongratsCooldown,
				fmt.Sprintf("Great job completing %q!", task.Title))
		case task.IsStale(now, m.cfg.StaleAfter):
			m.encourage(ctx, viewer, buddy, task, now, lastSent, m.cfg.EncourageCooldown,
				fmt.Sprintf("Hey! How's it going with %q? Let me know if you need any help!", task.Title))
		}
	}

	if err := m.state.ReplaceLastSent(ctx, userID, lastSent); err != nil {
		return err
	}
	return m.state.SetLastCheck(ctx, userID, now)
}

func (m *EngagementMonitor) encourage(
	ctx context.Context,
	viewer *domain.User,
	buddy *domain.BuddyRelation,
	task domain.Task,
	now time.Time,
	lastSent map[string]time.Time,
	cooldown time.Duration,
	text string,
) {
	key := domain.ConversationKey(viewer.ID, buddy.UserID, task.ID)
	if sent, ok := lastSent[key]; ok && now.Sub(sent) <= cooldown {
		return
	}
	if _, err := m.chat.Post(ctx, chatUC.PostInput{
		SenderID:    viewer.ID,
		SenderName:  viewer.Name,
		RecipientID: buddy.UserID,
		TaskID:      task.ID,
		TaskTitle:   task.Title,
		Text:        text,
		At:          now,
	}); err != nil {
		m.logger.Warn("encouragement post failed",
			zap.String("conversation_key", key),
			zap.Error(err))
		return
	}
	lastSent[key] = now
}
