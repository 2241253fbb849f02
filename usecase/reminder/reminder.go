// Package reminder estimates the most effective time of day to remind
// a user about a task, based on when past reminders led to completion.
package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskbuddy/backend/repository"
)

// DefaultHour is used when a task has no successful reminder history.
const DefaultHour = 9

type UseCase struct {
	history repository.ReminderRepository
	logger  *zap.Logger
}

func New(history repository.ReminderRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		history: history,
		logger:  logger,
	}
}

// BestTime returns the next reminder time for the task. With no
// recorded successes it falls back to 09:00 today. Otherwise it picks
// the hour of day with the most successes, at minute zero; ties go to
// the smallest tied hour, which keeps the result stable across runs.
// A computed time already in the past rolls to the next calendar day.
func (uc *UseCase) BestTime(ctx context.Context, userID, taskID string, now time.Time) (time.Time, error) {
	hist, err := uc.history.History(ctx, userID, taskID)
	if err != nil {
		return time.Time{}, err
	}

	if len(hist.SuccessfulTimes) == 0 {
		return time.Date(now.Year(), now.Month(), now.Day(), DefaultHour, 0, 0, 0, now.Location()), nil
	}

	var counts [24]int
	for _, ts := range hist.SuccessfulTimes {
		counts[ts.In(now.Location()).Hour()]++
	}
	bestHour := 0
	for hour := 1; hour < 24; hour++ {
		if counts[hour] > counts[bestHour] {
			bestHour = hour
		}
	}

	suggested := time.Date(now.Year(), now.Month(), now.Day(), bestHour, 0, 0, 0, now.Location())
	if suggested.Before(now) {
		suggested = suggested.AddDate(0, 0, 1)
	}
	return suggested, nil
}

// RecordSuccess appends a successful reminder time to the history.
func (uc *UseCase) RecordSuccess(ctx context.Context, userID, taskID string, at time.Time) error {
	hist, err := uc.history.History(ctx, userID, taskID)
	if err != nil {
		return err
	}
	hist.SuccessfulTimes = append(hist.SuccessfulTimes, at)
	return uc.history.SaveHistory(ctx, hist)
}

// RecordFailure appends an unsuccessful reminder time. Failures are
// stored for later analysis; BestTime does not consult them.
func (uc *UseCase) RecordFailure(ctx context.Context, userID, taskID string, at time.Time) error {
	hist, err := uc.history.History(ctx, userID, taskID)
	if err != nil {
		return err
	}
	hist.UnsuccessfulTimes = append(hist.UnsuccessfulTimes, at)
	return uc.history.SaveHistory(ctx, hist)
}
