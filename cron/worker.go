package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"carelink/config"
	"carelink/models"
	"carelink/services/booking"
	"carelink/services/tasks"
)

// Repairer restores the appointment of a partially failed booking.
type Repairer interface {
	Repair(ctx context.Context, appt models.Appointment) error
}

// QueueRedisOpt is the asynq connection shared by the enqueuer and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReconcileWorker starts the repair worker in the background and returns
// the server so the caller can shut it down.
func InitReconcileWorker(ctx context.Context, repairer Repairer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.WarnLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReconcileAppointment, handleReconcileTask(repairer, logger))

	go monitorRedisConnection(ctx, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting reconcile worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("reconcile worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("reconcile worker gave up; partial bookings will not be repaired")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

func handleReconcileTask(repairer Repairer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reconcile payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		log := logger.With(
			zap.String("appointmentId", p.Appointment.ID),
			zap.String("attempted", p.Attempted),
		)
		err := repairer.Repair(ctx, p.Appointment)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, booking.ErrSlotReleased), errors.Is(err, booking.ErrSlotGone):
			log.Warn("dropping appointment repair", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		default:
			log.Error("appointment repair failed", zap.Error(err))
			return err
		}
	}
}

// monitorRedisConnection pings the queue's Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
