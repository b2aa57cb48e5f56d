package workers

import (
	"context"
	"fmt"
	"os"
	"time"

	"fittrack/services"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// asynqLoggerAdapter wraps zap.Logger to satisfy the asynq.Logger
// interface.
type asynqLoggerAdapter struct {
	logger *zap.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) { a.logger.Debug(fmt.Sprint(args...)) }
func (a *asynqLoggerAdapter) Info(args ...interface{})  { a.logger.Info(fmt.Sprint(args...)) }
func (a *asynqLoggerAdapter) Warn(args ...interface{})  { a.logger.Warn(fmt.Sprint(args...)) }
func (a *asynqLoggerAdapter) Error(args ...interface{}) { a.logger.Error(fmt.Sprint(args...)) }
func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

func redisOpt() (asynq.RedisConnOpt, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379"
	}
	return asynq.ParseRedisURI(url)
}

// Start launches the worker server in non-blocking mode and returns a
// stop function for shutdown coordination.
func Start(log *zap.Logger, db *gorm.DB, analytics *services.AnalyticsService, push *services.PushService) (stop func(), err error) {
	opt, err := redisOpt()
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	srv := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(log)),
			Logger:          &asynqLoggerAdapter{logger: log},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDailyReminder, handleDailyReminder(log, db, push))
	mux.HandleFunc(TaskWeeklySummary, handleWeeklySummary(log, db, analytics))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	log.Info("worker started", zap.Int("concurrency", 5))
	return func() { srv.Shutdown() }, nil
}

func makeErrorHandler(log *zap.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		log.Error("task execution failed",
			zap.String("task_type", task.Type()),
			zap.Error(err),
			zap.Int("retry_count", retried),
			zap.Int("max_retry", maxRetry))

		if retried >= maxRetry {
			log.Error("task moved to dead letter queue",
				zap.String("task_type", task.Type()),
				zap.ByteString("payload", task.Payload()))
		}
	}
}
