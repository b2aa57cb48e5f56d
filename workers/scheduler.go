package workers

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	dailyReminderSchedule = "0 18 * * *" // 18:00 local, after most workday workouts
	weeklySummarySchedule = "0 8 * * 1"  // Monday morning
)

// StartScheduler registers the periodic reminder and summary tasks.
// Returns a stop function for graceful shutdown.
func StartScheduler(log *zap.Logger) (stop func(), err error) {
	opt, err := redisOpt()
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	scheduler := asynq.NewScheduler(
		opt,
		&asynq.SchedulerOpts{
			Location: time.Local,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: log},
		},
	)

	reminder := asynq.NewTask(
		TaskDailyReminder,
		nil,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(12*time.Hour),
	)
	if _, err := scheduler.Register(dailyReminderSchedule, reminder); err != nil {
		return nil, fmt.Errorf("failed to register daily reminder: %w", err)
	}

	summary := asynq.NewTask(
		TaskWeeklySummary,
		nil,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute),
		asynq.Unique(24*time.Hour),
	)
	if _, err := scheduler.Register(weeklySummarySchedule, summary); err != nil {
		return nil, fmt.Errorf("failed to register weekly summary: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("scheduler started",
		zap.String("daily_reminder", dailyReminderSchedule),
		zap.String("weekly_summary", weeklySummarySchedule))

	return func() { scheduler.Shutdown() }, nil
}
