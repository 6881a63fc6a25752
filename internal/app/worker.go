package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-appraise/internal/directory"
	"go-appraise/internal/evaluation"
	"go-appraise/internal/messaging/kafka"
	"go-appraise/internal/messaging/kafka/producer"
	"go-appraise/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker hosts the two background loops: the scheduler tick that
// materializes missing instances and refreshes overdue flags, and the
// outbox dispatcher that ships queued notifications to Kafka. The
// scheduler is a backstop; listing requests do the same work on demand.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	dir := directory.NewRepository(gormDB)
	evaluationRepo := evaluation.NewRepository(gormDB)
	evaluationService := evaluation.NewService(sqlDB, evaluationRepo, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runSchedulerTicks(ctx, evaluationService, logger, schedulerInterval())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func schedulerInterval() time.Duration {
	if raw := os.Getenv("SCHEDULER_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return time.Hour
}

func runSchedulerTicks(
	ctx context.Context,
	evaluationService evaluation.Service,
	logger *zap.Logger,
	interval time.Duration,
) {
	log := logger.Named("scheduler")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("scheduler started", zap.Duration("interval", interval))

	// First tick immediately so a fresh deployment catches up without
	// waiting out an interval.
	schedulerTick(ctx, evaluationService, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stopped")
			return
		case <-ticker.C:
			schedulerTick(ctx, evaluationService, log)
		}
	}
}

func schedulerTick(ctx context.Context, evaluationService evaluation.Service, log *zap.Logger) {
	now := time.Now().UTC()

	result, err := evaluationService.Materialize(ctx, nil, now)
	if err != nil {
		log.Error("materialize tick failed", zap.Error(err))
	} else {
		log.Info("materialize tick finished",
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
		)
	}

	updated, err := evaluationService.MarkOverdue(ctx, now)
	if err != nil {
		log.Error("overdue scan failed", zap.Error(err))
	} else if updated > 0 {
		log.Info("overdue scan finished", zap.Int("updated", updated))
	}
}
