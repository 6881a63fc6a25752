package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review statuses. Approval moves forward only, except the manager
// disapprove action which sends the record back to supervisor_review for
// rework. The disapproved value is a modeled terminal state the running
// workflow never leaves a record in.
const (
	StatusPending          = "pending"
	StatusSupervisorReview = "supervisor_review"
	StatusManagerReview    = "manager_review"
	StatusApproved         = "approved"
	StatusDisapproved      = "disapproved"
)

// Review is one employee's evaluation content moving through
// self -> supervisor -> manager approval. Supervisor and manager are
// snapshotted when each stage starts; later directory changes do not move
// in-flight records.
type Review struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EvaluationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	InstanceID   *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupervisorID *uuid.UUID `gorm:"type:uuid"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`

	Status string `gorm:"type:varchar(30);not null;default:'pending';index"`

	SelfCompletedAt       *time.Time
	SupervisorCompletedAt *time.Time
	ManagerCompletedAt    *time.Time

	// The five supervisor-assigned criteria, 1-5. Nil until reviewed.
	CostConsciousness *int `gorm:"type:int"`
	Dependability     *int `gorm:"type:int"`
	Communication     *int `gorm:"type:int"`
	WorkEthics        *int `gorm:"type:int"`
	Attendance        *int `gorm:"type:int"`

	CostConsciousnessComment string `gorm:"type:text"`
	DependabilityComment     string `gorm:"type:text"`
	CommunicationComment     string `gorm:"type:text"`
	WorkEthicsComment        string `gorm:"type:text"`
	AttendanceComment        string `gorm:"type:text"`

	Strengths        string `gorm:"type:text"`
	Weaknesses       string `gorm:"type:text"`
	TrainingRequired string `gorm:"type:text"`
	Comments         string `gorm:"type:text"`
	ManagerComments  string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Task is one entry of an employee's evaluable task list. The list is not
// time-scoped: the same tasks are rated every period.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_employee_description,priority:1"`
	Description string    `gorm:"size:500;not null;uniqueIndex:uq_task_employee_description,priority:2"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskRating holds the employee's self-rating for one task within one
// review, plus an optional supervisor override.
type TaskRating struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_rating,priority:1"`
	TaskID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_rating,priority:2"`
	SelfRating       int       `gorm:"type:int;not null"`
	SupervisorRating *int      `gorm:"type:int"`
	Comments         string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
