package evaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Instance statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// GraceDays is added to a period's end to produce the instance due date.
const GraceDays = 7

// Evaluation is a recurring schedule definition. Cadence and the anchor
// start date are frozen once any instance has been materialized; only
// metadata (title, description, active flag) stays editable.
type Evaluation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	Cadence     string    `gorm:"type:varchar(20);not null"`
	StartYear   int       `gorm:"type:int;not null"`
	EndYear     int       `gorm:"type:int;not null"`
	StartDate   time.Time `gorm:"not null"`
	IsActive    bool      `gorm:"not null;default:true;index"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// EvaluationInstance is one (evaluation, employee, period) unit of work.
// PeriodKey is the cadence-specific identity used for de-duplication; the
// unique index on it is the concurrency guard for materialization.
type EvaluationInstance struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EvaluationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_instance_period,priority:1;constraint:OnDelete:CASCADE"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_instance_period,priority:2;index:idx_instances_employee"`
	PeriodKey    string    `gorm:"size:20;not null;uniqueIndex:uq_instance_period,priority:3"`
	PeriodStart  time.Time `gorm:"not null"`
	PeriodEnd    time.Time `gorm:"not null"`
	DueDate      time.Time `gorm:"not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
