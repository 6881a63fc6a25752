// Package notification is the fire-and-forget notification sink consumed
// by the approval workflow. The outbox implementation records messages in
// the caller's transaction; a separate worker ships them to Kafka.
package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-appraise/internal/events"
	"go-appraise/internal/messaging/kafka"

	"github.com/google/uuid"
)

type Notifier interface {
	// Notify queues a notification for the recipient. Implementations
	// never block on delivery.
	Notify(ctx context.Context, recipientID uuid.UUID, title, message, category string) error
}

// WithTx returns a notifier bound to tx when the implementation supports
// transactional enqueueing, the notifier itself otherwise.
func WithTx(n Notifier, tx *sql.Tx) Notifier {
	if tn, ok := n.(interface{ withTx(tx *sql.Tx) Notifier }); ok {
		return tn.withTx(tx)
	}
	return n
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(context.Context, uuid.UUID, string, string, string) error {
	return nil
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
}

func NewOutboxNotifier(outbox kafka.OutboxRepository) Notifier {
	return &outboxNotifier{outbox: outbox}
}

func (n *outboxNotifier) withTx(tx *sql.Tx) Notifier {
	return &outboxNotifier{outbox: n.outbox.WithTx(tx)}
}

func (n *outboxNotifier) Notify(ctx context.Context, recipientID uuid.UUID, title, message, category string) error {
	event := events.NotificationEvent{
		EventType:   "notification.requested",
		RecipientID: recipientID.String(),
		Title:       title,
		Message:     message,
		Category:    category,
		OccurredAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:          uuid.New().String(),
		RecipientID: event.RecipientID,
		EventType:   event.EventType,
		Topic:       events.NotificationTopic,
		Payload:     payload,
		Status:      kafka.OutboxStatusPending,
	})
}
