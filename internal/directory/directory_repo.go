package directory

import (
	"context"
	"errors"

	directoryerrors "go-appraise/internal/directory/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Directory {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (EmployeeRef, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("Position").
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeRef{}, directoryerrors.ErrEmployeeNotFound
		}
		return EmployeeRef{}, err
	}
	return mapToRef(e), nil
}

func (r *repository) ListEligible(ctx context.Context) ([]EmployeeRef, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("is_active = ?", true).
		Where("role NOT IN ?", []Role{RoleHRAdmin, RoleITAdmin, RoleSuperuser}).
		Order("full_name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}

	refs := make([]EmployeeRef, len(employees))
	for i, e := range employees {
		refs[i] = mapToRef(e)
	}
	return refs, nil
}

func (r *repository) GetApprover(ctx context.Context, id uuid.UUID) (*EmployeeRef, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directoryerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if e.ApproverID == nil {
		return nil, nil
	}

	approver, err := r.Get(ctx, *e.ApproverID)
	if err != nil {
		return nil, err
	}
	return &approver, nil
}

func (r *repository) PositionLevel(ctx context.Context, id uuid.UUID) (*int, error) {
	ref, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ref.PositionLevel, nil
}

func mapToRef(e Employee) EmployeeRef {
	ref := EmployeeRef{
		ID:         e.ID,
		FullName:   e.FullName,
		Email:      e.Email,
		Role:       e.Role,
		Active:     e.IsActive,
		ApproverID: e.ApproverID,
	}
	if e.Position != nil {
		level := e.Position.Level
		ref.PositionLevel = &level
	}
	return ref
}
