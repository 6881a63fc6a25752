package events

import "time"

const NotificationTopic = "hr.evaluation.notification.v1"

// Notification categories emitted by the evaluation workflow.
const (
	CategoryEvaluation = "evaluation"
	CategoryApproval   = "approval"
	CategoryReminder   = "reminder"
)

type NotificationEvent struct {
	EventType   string    `json:"event_type"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Category    string    `json:"category"`
	OccurredAt  time.Time `json:"occurred_at"`
}
