package review

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstanceRow is the projection of evaluation_instances this package
// needs: re-deriving the instance status is part of every review
// transition.
type InstanceRow struct {
	ID           string
	EvaluationID string
	EmployeeID   string
	Status       string
}

//go:generate mockgen -source=review_repo.go -destination=mock/review_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id string) (*Review, error)
	FindByInstance(ctx context.Context, instanceID string) (*Review, error)
	Update(ctx context.Context, r *Review) error

	FindInstance(ctx context.Context, instanceID string) (*InstanceRow, error)
	UpdateInstanceStatus(ctx context.Context, instanceID, status string) error

	CreateTask(ctx context.Context, t *Task) error
	ListTasks(ctx context.Context, employeeID string) ([]Task, error)
	UpsertTaskRating(ctx context.Context, tr *TaskRating) error
	SetSupervisorRating(ctx context.Context, reviewID, taskID string, rating int, comments string) error
	ListTaskRatings(ctx context.Context, reviewID string) ([]TaskRating, error)
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

func (r *repository) Create(ctx context.Context, rev *Review) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Review, error) {
	var rev Review
	err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error
	return &rev, err
}

func (r *repository) FindByInstance(ctx context.Context, instanceID string) (*Review, error) {
	var rev Review
	err := r.db.WithContext(ctx).First(&rev, "instance_id = ?", instanceID).Error
	return &rev, err
}

func (r *repository) Update(ctx context.Context, rev *Review) error {
	return r.db.WithContext(ctx).Save(rev).Error
}

func (r *repository) FindInstance(ctx context.Context, instanceID string) (*InstanceRow, error) {
	var row InstanceRow
	err := r.db.WithContext(ctx).
		Table("evaluation_instances").
		Select("id::text AS id, evaluation_id::text AS evaluation_id, employee_id::text AS employee_id, status").
		Where("id = ?", instanceID).
		Take(&row).Error
	return &row, err
}

func (r *repository) UpdateInstanceStatus(ctx context.Context, instanceID, status string) error {
	return r.db.WithContext(ctx).
		Table("evaluation_instances").
		Where("id = ?", instanceID).
		Update("status", status).Error
}

func (r *repository) CreateTask(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) ListTasks(ctx context.Context, employeeID string) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) UpsertTaskRating(ctx context.Context, tr *TaskRating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"self_rating", "comments", "updated_at"}),
		}).
		Create(tr).Error
}

func (r *repository) SetSupervisorRating(ctx context.Context, reviewID, taskID string, rating int, comments string) error {
	updates := map[string]any{"supervisor_rating": rating}
	if comments != "" {
		updates["comments"] = comments
	}
	return r.db.WithContext(ctx).
		Model(&TaskRating{}).
		Where("review_id = ?", reviewID).
		Where("task_id = ?", taskID).
		Updates(updates).Error
}

func (r *repository) ListTaskRatings(ctx context.Context, reviewID string) ([]TaskRating, error) {
	var ratings []TaskRating
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&ratings).Error
	return ratings, err
}
