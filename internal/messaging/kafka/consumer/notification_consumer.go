package consumer

import (
	"context"
	"encoding/json"

	"go-appraise/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Deliverer hands a decoded notification to an actual channel (mail,
// chat, in-app inbox). Delivery detail is outside this core; the default
// implementation only records the event.
type Deliverer interface {
	Deliver(ctx context.Context, event events.NotificationEvent) error
}

type LogDeliverer struct {
	Logger *zap.Logger
}

func (d *LogDeliverer) Deliver(_ context.Context, event events.NotificationEvent) error {
	d.Logger.Named("notification.delivery").Info("notification delivered",
		zap.String("recipient_id", event.RecipientID),
		zap.String("category", event.Category),
		zap.String("title", event.Title),
	)
	return nil
}

// ConsumeNotifications reads the notification topic and dispatches each
// event to the deliverer. Undecodable messages are committed and dropped;
// delivery failures are retried by not committing.
func ConsumeNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	deliverer Deliverer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		var event events.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode notification event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := deliverer.Deliver(ctx, event); err != nil {
			log.Error("deliver notification failed",
				zap.String("recipient_id", event.RecipientID),
				zap.String("category", event.Category),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}
	}
}
