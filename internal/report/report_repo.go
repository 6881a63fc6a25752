package report

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	// ListScoreRows returns the flattened review rows for one employee
	// whose period starts fall inside [from, to].
	ListScoreRows(ctx context.Context, employeeID string, from, to time.Time) ([]ScoreRow, error)
	// ListAllScoreRows is the organization-wide variant feeding exports.
	ListAllScoreRows(ctx context.Context, from, to time.Time) ([]ScoreRow, error)
	// CountInstances returns total and completed instance counts for the
	// employee in the window. Empty employeeID counts everyone.
	CountInstances(ctx context.Context, employeeID string, from, to time.Time) (total, completed int64, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const scoreRowSelect = `
	reviews.employee_id::text AS employee_id,
	employees.full_name AS employee_name,
	instances.period_start AS period_start,
	reviews.status AS status,
	(SELECT AVG(tr.self_rating)::float8
	   FROM task_ratings tr WHERE tr.review_id = reviews.id) AS self_avg,
	(SELECT AVG(tr.supervisor_rating)::float8
	   FROM task_ratings tr WHERE tr.review_id = reviews.id
	    AND tr.supervisor_rating IS NOT NULL) AS supervisor_avg,
	reviews.cost_consciousness,
	reviews.dependability,
	reviews.communication,
	reviews.work_ethics,
	reviews.attendance`

func (r *repository) scoreRowQuery(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews").
		Select(scoreRowSelect).
		Joins("JOIN evaluation_instances instances ON instances.id = reviews.instance_id").
		Joins("JOIN employees ON employees.id = reviews.employee_id").
		Where("reviews.deleted_at IS NULL").
		Where("instances.period_start BETWEEN ? AND ?", from, to)
}

func (r *repository) ListScoreRows(ctx context.Context, employeeID string, from, to time.Time) ([]ScoreRow, error) {
	var rows []ScoreRow
	err := r.scoreRowQuery(ctx, from, to).
		Where("reviews.employee_id = ?", employeeID).
		Order("instances.period_start ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListAllScoreRows(ctx context.Context, from, to time.Time) ([]ScoreRow, error) {
	var rows []ScoreRow
	err := r.scoreRowQuery(ctx, from, to).
		Order("employees.full_name ASC, instances.period_start ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountInstances(ctx context.Context, employeeID string, from, to time.Time) (int64, int64, error) {
	base := r.db.WithContext(ctx).
		Table("evaluation_instances").
		Where("period_start BETWEEN ? AND ?", from, to)
	if employeeID != "" {
		base = base.Where("employee_id = ?", employeeID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var completed int64
	if err := base.Session(&gorm.Session{}).Where("status = ?", "completed").Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}
