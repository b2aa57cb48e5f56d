package workers

import (
	"context"
	"fmt"
	"time"

	"fittrack/models"
	"fittrack/services"
	"fittrack/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TaskDailyReminder = "reminder:daily"
	TaskWeeklySummary = "summary:weekly"
)

// handleDailyReminder nudges opted-in users who have not logged a
// workout yet today.
func handleDailyReminder(log *zap.Logger, db *gorm.DB, push *services.PushService) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var users []models.User
		if err := db.WithContext(ctx).
			Where("notify_daily_reminder = ?", true).
			Find(&users).Error; err != nil {
			return fmt.Errorf("loading reminder users: %w", err)
		}

		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		sent := 0
		for _, u := range users {
			var count int64
			if err := db.WithContext(ctx).
				Model(&models.Workout{}).
				Where("user_id = ? AND performed_at >= ?", u.ID, start).
				Count(&count).Error; err != nil {
				log.Warn("reminder workout check failed", zap.Uint("user_id", u.ID), zap.Error(err))
				continue
			}
			if count > 0 {
				continue
			}
			push.PushToUser(ctx, u.ID,
				"Time to move!",
				"You haven't logged a workout today. Even a short one keeps your streak alive.",
				map[string]string{"kind": "daily-reminder"})
			sent++
		}

		log.Info("daily reminders dispatched", zap.Int("sent", sent), zap.Int("eligible", len(users)))
		return nil
	}
}

// handleWeeklySummary mails each opted-in user their trailing-week
// figures. One user failing never aborts the batch.
func handleWeeklySummary(log *zap.Logger, db *gorm.DB, analytics *services.AnalyticsService) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var users []models.User
		if err := db.WithContext(ctx).
			Where("notify_weekly_summary = ?", true).
			Find(&users).Error; err != nil {
			return fmt.Errorf("loading summary users: %w", err)
		}

		sent := 0
		for _, u := range users {
			summary, err := analytics.Summary(ctx, u.ID, 7)
			if err != nil {
				log.Warn("weekly summary build failed", zap.Uint("user_id", u.ID), zap.Error(err))
				continue
			}
			body := fmt.Sprintf(
				"Workouts this week: %d\nActive days: %d\nAverage daily calories: %d\nCurrent workout streak: %d days\n",
				summary.TotalWorkouts,
				summary.WorkoutConsistency,
				summary.AverageDailyCalories,
				summary.CurrentStreak,
			)
			if err := utils.SendWeeklySummaryEmail(u.Email, u.Name, body); err != nil {
				log.Warn("weekly summary email failed", zap.Uint("user_id", u.ID), zap.Error(err))
				continue
			}
			sent++
		}

		log.Info("weekly summaries sent", zap.Int("sent", sent), zap.Int("eligible", len(users)))
		return nil
	}
}
