package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the typed capability of an employee. The scheduler evaluates
// line staff only; administrative roles are excluded from materialization.
type Role string

const (
	RoleStaff      Role = "STAFF"
	RoleSupervisor Role = "SUPERVISOR"
	RoleHRAdmin    Role = "HR_ADMIN"
	RoleITAdmin    Role = "IT_ADMIN"
	RoleSuperuser  Role = "SUPERUSER"
)

// IsAdministrative reports whether the role is excluded from evaluation
// scheduling.
func (r Role) IsAdministrative() bool {
	switch r {
	case RoleHRAdmin, RoleITAdmin, RoleSuperuser:
		return true
	}
	return false
}

type Employee struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName   string     `gorm:"size:255;not null"`
	Email      string     `gorm:"uniqueIndex;not null"`
	Role       Role       `gorm:"type:varchar(30);not null;default:'STAFF'"`
	IsActive   bool       `gorm:"not null;default:true;index"`
	PositionID *uuid.UUID `gorm:"type:uuid"`
	Position   *Position  `gorm:"foreignKey:PositionID;references:ID"`
	ApproverID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Position struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"size:255;not null"`
	Level int       `gorm:"type:int;not null;default:1"`
}

func (Position) TableName() string {
	return "positions"
}
