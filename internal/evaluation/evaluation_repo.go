package evaluation

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=evaluation_repo.go -destination=mock/evaluation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, e *Evaluation) error
	FindAll(ctx context.Context) ([]Evaluation, error)
	FindActive(ctx context.Context) ([]Evaluation, error)
	FindByID(ctx context.Context, id string) (*Evaluation, error)
	Update(ctx context.Context, e *Evaluation) error
	Delete(ctx context.Context, id string) error

	CountInstances(ctx context.Context, evaluationID string) (int64, error)
	CreateInstance(ctx context.Context, inst *EvaluationInstance) error
	ExistingPeriodKeys(ctx context.Context, evaluationID, employeeID string) (map[string]struct{}, error)
	ListInstancesByEmployee(ctx context.Context, employeeID string) ([]EvaluationInstance, error)
	ListInstancesByEvaluation(ctx context.Context, evaluationID string) ([]EvaluationInstance, error)
	FindInstanceByID(ctx context.Context, id string) (*EvaluationInstance, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *Evaluation) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Evaluation, error) {
	var evaluations []Evaluation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *repository) FindActive(ctx context.Context) ([]Evaluation, error) {
	var evaluations []Evaluation
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Evaluation, error) {
	var e Evaluation
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Evaluation) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", id).Delete(&EvaluationInstance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Evaluation{}, "id = ?", id).Error
	})
}

func (r *repository) CountInstances(ctx context.Context, evaluationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EvaluationInstance{}).
		Where("evaluation_id = ?", evaluationID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateInstance(ctx context.Context, inst *EvaluationInstance) error {
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *repository) ExistingPeriodKeys(ctx context.Context, evaluationID, employeeID string) (map[string]struct{}, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&EvaluationInstance{}).
		Where("evaluation_id = ?", evaluationID).
		Where("employee_id = ?", employeeID).
		Pluck("period_key", &keys).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

func (r *repository) ListInstancesByEmployee(ctx context.Context, employeeID string) ([]EvaluationInstance, error) {
	var instances []EvaluationInstance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("period_start DESC").
		Find(&instances).Error
	return instances, err
}

func (r *repository) ListInstancesByEvaluation(ctx context.Context, evaluationID string) ([]EvaluationInstance, error) {
	var instances []EvaluationInstance
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Order("period_start ASC").
		Find(&instances).Error
	return instances, err
}

func (r *repository) FindInstanceByID(ctx context.Context, id string) (*EvaluationInstance, error) {
	var inst EvaluationInstance
	err := r.db.WithContext(ctx).First(&inst, "id = ?", id).Error
	return &inst, err
}

func (r *repository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&EvaluationInstance{}).
		Where("due_date < ?", now).
		Where("status IN ?", []string{StatusPending, StatusInProgress}).
		Update("status", StatusOverdue)
	return result.RowsAffected, result.Error
}
