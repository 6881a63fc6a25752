// Package directory is the employee/organization collaborator consumed by
// the scheduler and the approval workflow. The core only depends on the
// Directory interface; the gorm-backed implementation lives alongside it.
package directory

import (
	"context"

	"github.com/google/uuid"
)

// EmployeeRef is the read-only projection the core works with.
type EmployeeRef struct {
	ID            uuid.UUID
	FullName      string
	Email         string
	Role          Role
	Active        bool
	PositionLevel *int
	ApproverID    *uuid.UUID
}

// Eligible reports whether the employee should receive evaluation
// instances: active line staff, never administrative roles.
func (e EmployeeRef) Eligible() bool {
	return e.Active && !e.Role.IsAdministrative()
}

//go:generate mockgen -source=directory.go -destination=mock/directory_mock.go -package=mock
type Directory interface {
	Get(ctx context.Context, id uuid.UUID) (EmployeeRef, error)
	// ListEligible returns every employee the materializer should
	// generate instances for.
	ListEligible(ctx context.Context) ([]EmployeeRef, error)
	// GetApprover resolves the employee's configured approver; nil means
	// none is set.
	GetApprover(ctx context.Context, id uuid.UUID) (*EmployeeRef, error)
	// PositionLevel resolves the employee's position tier (1-3); nil when
	// no position is assigned.
	PositionLevel(ctx context.Context, id uuid.UUID) (*int, error)
}
