package review_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-appraise/internal/directory"
	"go-appraise/internal/notification"
	"go-appraise/internal/review"
	reviewerrors "go-appraise/internal/review/errors"
	"go-appraise/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeReviewRepository struct {
	withTxFn               func(tx *sql.Tx) review.Repository
	createFn               func(ctx context.Context, r *review.Review) error
	findByIDFn             func(ctx context.Context, id string) (*review.Review, error)
	findByInstanceFn       func(ctx context.Context, instanceID string) (*review.Review, error)
	updateFn               func(ctx context.Context, r *review.Review) error
	findInstanceFn         func(ctx context.Context, instanceID string) (*review.InstanceRow, error)
	updateInstanceStatusFn func(ctx context.Context, instanceID, status string) error
	createTaskFn           func(ctx context.Context, t *review.Task) error
	listTasksFn            func(ctx context.Context, employeeID string) ([]review.Task, error)
	upsertTaskRatingFn     func(ctx context.Context, tr *review.TaskRating) error
	setSupervisorRatingFn  func(ctx context.Context, reviewID, taskID string, rating int, comments string) error
	listTaskRatingsFn      func(ctx context.Context, reviewID string) ([]review.TaskRating, error)
}

func (f *fakeReviewRepository) WithTx(tx *sql.Tx) review.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeReviewRepository) Create(ctx context.Context, r *review.Review) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepository) FindByInstance(ctx context.Context, instanceID string) (*review.Review, error) {
	if f.findByInstanceFn != nil {
		return f.findByInstanceFn(ctx, instanceID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepository) Update(ctx context.Context, r *review.Review) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeReviewRepository) FindInstance(ctx context.Context, instanceID string) (*review.InstanceRow, error) {
	if f.findInstanceFn != nil {
		return f.findInstanceFn(ctx, instanceID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepository) UpdateInstanceStatus(ctx context.Context, instanceID, status string) error {
	if f.updateInstanceStatusFn != nil {
		return f.updateInstanceStatusFn(ctx, instanceID, status)
	}
	return nil
}

func (f *fakeReviewRepository) CreateTask(ctx context.Context, t *review.Task) error {
	if f.createTaskFn != nil {
		return f.createTaskFn(ctx, t)
	}
	return nil
}

func (f *fakeReviewRepository) ListTasks(ctx context.Context, employeeID string) ([]review.Task, error) {
	if f.listTasksFn != nil {
		return f.listTasksFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeReviewRepository) UpsertTaskRating(ctx context.Context, tr *review.TaskRating) error {
	if f.upsertTaskRatingFn != nil {
		return f.upsertTaskRatingFn(ctx, tr)
	}
	return nil
}

func (f *fakeReviewRepository) SetSupervisorRating(ctx context.Context, reviewID, taskID string, rating int, comments string) error {
	if f.setSupervisorRatingFn != nil {
		return f.setSupervisorRatingFn(ctx, reviewID, taskID, rating, comments)
	}
	return nil
}

func (f *fakeReviewRepository) ListTaskRatings(ctx context.Context, reviewID string) ([]review.TaskRating, error) {
	if f.listTaskRatingsFn != nil {
		return f.listTaskRatingsFn(ctx, reviewID)
	}
	return nil, nil
}

type fakeDirectory struct {
	getFn           func(ctx context.Context, id uuid.UUID) (directory.EmployeeRef, error)
	listEligibleFn  func(ctx context.Context) ([]directory.EmployeeRef, error)
	getApproverFn   func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error)
	positionLevelFn func(ctx context.Context, id uuid.UUID) (*int, error)
}

func (f *fakeDirectory) Get(ctx context.Context, id uuid.UUID) (directory.EmployeeRef, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return directory.EmployeeRef{}, nil
}

func (f *fakeDirectory) ListEligible(ctx context.Context) ([]directory.EmployeeRef, error) {
	if f.listEligibleFn != nil {
		return f.listEligibleFn(ctx)
	}
	return nil, nil
}

func (f *fakeDirectory) GetApprover(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
	if f.getApproverFn != nil {
		return f.getApproverFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeDirectory) PositionLevel(ctx context.Context, id uuid.UUID) (*int, error) {
	if f.positionLevelFn != nil {
		return f.positionLevelFn(ctx, id)
	}
	return nil, nil
}

type reviewServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service review.Service
	repo    *fakeReviewRepository
	dir     *fakeDirectory
}

func setupReviewServiceTest(t *testing.T) *reviewServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeReviewRepository{}
	dir := &fakeDirectory{}
	svc := review.NewService(db, repo, dir, notification.NewNoopNotifier())

	return &reviewServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		dir:     dir,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func approverFor(id uuid.UUID) *directory.EmployeeRef {
	return &directory.EmployeeRef{
		ID:       id,
		FullName: "Approver",
		Role:     directory.RoleSupervisor,
		Active:   true,
	}
}

func pendingReview(employeeID uuid.UUID, instanceID *uuid.UUID) *review.Review {
	return &review.Review{
		ID:           uuid.New(),
		EvaluationID: uuid.New(),
		InstanceID:   instanceID,
		EmployeeID:   employeeID,
		Status:       review.StatusPending,
	}
}

func supervisorReviewRequest() review.SupervisorReviewRequest {
	return review.SupervisorReviewRequest{
		Criteria: review.CriteriaRatings{
			CostConsciousness: 4,
			Dependability:     5,
			Communication:     3,
			WorkEthics:        4,
			Attendance:        5,
		},
		Strengths:  "Consistently delivers",
		Weaknesses: "Estimates run long",
	}
}

func TestReviewService_Start(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	instanceID := uuid.New()

	t.Run("success creates pending review", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findInstanceFn = func(ctx context.Context, id string) (*review.InstanceRow, error) {
			return &review.InstanceRow{
				ID:           instanceID.String(),
				EvaluationID: uuid.New().String(),
				EmployeeID:   employeeID.String(),
				Status:       "pending",
			}, nil
		}
		deps.dir.getApproverFn = func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
			return approverFor(uuid.New()), nil
		}
		deps.repo.createFn = func(ctx context.Context, r *review.Review) error {
			assert.Equal(t, employeeID, r.EmployeeID)
			assert.Equal(t, review.StatusPending, r.Status)
			assert.Equal(t, instanceID, *r.InstanceID)
			return nil
		}

		resp, err := deps.service.Start(ctx, instanceID.String(), employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, review.StatusPending, resp.Status)
		assert.Equal(t, 0, resp.CompletionPercent)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success returns existing review without creating", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		existing := pendingReview(employeeID, &instanceID)
		deps.repo.findInstanceFn = func(ctx context.Context, id string) (*review.InstanceRow, error) {
			return &review.InstanceRow{ID: instanceID.String(), EvaluationID: existing.EvaluationID.String(), EmployeeID: employeeID.String()}, nil
		}
		deps.dir.getApproverFn = func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
			return approverFor(uuid.New()), nil
		}
		deps.repo.findByInstanceFn = func(ctx context.Context, id string) (*review.Review, error) {
			return existing, nil
		}
		deps.repo.createFn = func(ctx context.Context, r *review.Review) error {
			t.Fatal("unexpected create")
			return nil
		}

		resp, err := deps.service.Start(ctx, instanceID.String(), employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, existing.ID.String(), resp.ID)
	})

	t.Run("negative no approver configured", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		deps.repo.findInstanceFn = func(ctx context.Context, id string) (*review.InstanceRow, error) {
			return &review.InstanceRow{ID: instanceID.String(), EvaluationID: uuid.New().String(), EmployeeID: employeeID.String()}, nil
		}

		_, err := deps.service.Start(ctx, instanceID.String(), employeeID.String())

		assert.ErrorIs(t, err, reviewerrors.ErrNoApprover)
	})

	t.Run("negative instance belongs to someone else", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		deps.repo.findInstanceFn = func(ctx context.Context, id string) (*review.InstanceRow, error) {
			return &review.InstanceRow{ID: instanceID.String(), EvaluationID: uuid.New().String(), EmployeeID: uuid.New().String()}, nil
		}

		_, err := deps.service.Start(ctx, instanceID.String(), employeeID.String())

		assert.ErrorIs(t, err, reviewerrors.ErrNotInstanceOwner)
	})
}

func TestReviewService_SubmitSelf(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	supervisorID := uuid.New()
	instanceID := uuid.New()
	now, _ := time.Parse(time.RFC3339, "2024-06-01T09:00:00Z")

	validRequest := review.SubmitSelfRequest{
		Ratings: []review.TaskRatingInput{
			{TaskID: uuid.New().String(), Rating: 4, Comments: "Shipped on time"},
			{TaskID: uuid.New().String(), Rating: 5},
		},
	}

	t.Run("success snapshots supervisor and moves to supervisor_review", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		rev := pendingReview(employeeID, &instanceID)
		upserted := 0
		instanceStatus := ""

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		deps.dir.getApproverFn = func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
			assert.Equal(t, employeeID, id)
			return approverFor(supervisorID), nil
		}
		deps.repo.upsertTaskRatingFn = func(ctx context.Context, tr *review.TaskRating) error {
			assert.Equal(t, rev.ID, tr.ReviewID)
			upserted++
			return nil
		}
		deps.repo.updateInstanceStatusFn = func(ctx context.Context, id, status string) error {
			assert.Equal(t, instanceID.String(), id)
			instanceStatus = status
			return nil
		}

		resp, err := deps.service.SubmitSelf(ctx, rev.ID.String(), employeeID.String(), validRequest, now)

		assert.NoError(t, err)
		assert.Equal(t, review.StatusSupervisorReview, resp.Status)
		assert.Equal(t, supervisorID.String(), *resp.SupervisorID)
		assert.Equal(t, now.Format(time.RFC3339), *resp.SelfCompletedAt)
		assert.Equal(t, 2, upserted)
		assert.Equal(t, "in_progress", instanceStatus)
		assert.Equal(t, 25, resp.CompletionPercent)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already submitted", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := pendingReview(employeeID, &instanceID)
		rev.SelfCompletedAt = &now
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.SubmitSelf(ctx, rev.ID.String(), employeeID.String(), validRequest, now)

		assert.ErrorIs(t, err, reviewerrors.ErrAlreadySubmitted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative out-of-range ratings reported per field", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		req := review.SubmitSelfRequest{
			Ratings: []review.TaskRatingInput{
				{TaskID: uuid.New().String(), Rating: 0},
				{TaskID: uuid.New().String(), Rating: 3},
				{TaskID: uuid.New().String(), Rating: 6},
			},
		}

		_, err := deps.service.SubmitSelf(ctx, uuid.New().String(), employeeID.String(), req, now)

		assert.Error(t, err)
		details := errorDetails(t, err)
		assert.Len(t, details, 2)
		assert.Contains(t, details, "ratings[0].rating")
		assert.Contains(t, details, "ratings[2].rating")
	})

	t.Run("negative approver removed before submission", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := pendingReview(employeeID, &instanceID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.SubmitSelf(ctx, rev.ID.String(), employeeID.String(), validRequest, now)

		assert.ErrorIs(t, err, reviewerrors.ErrNoApprover)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative submitted by someone else", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := pendingReview(employeeID, &instanceID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.SubmitSelf(ctx, rev.ID.String(), uuid.New().String(), validRequest, now)

		assert.ErrorIs(t, err, reviewerrors.ErrNotAuthorized)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestReviewService_SubmitSupervisor(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	supervisorID := uuid.New()
	managerID := uuid.New()
	instanceID := uuid.New()
	now, _ := time.Parse(time.RFC3339, "2024-06-10T09:00:00Z")

	inSupervisorReview := func() *review.Review {
		rev := pendingReview(employeeID, &instanceID)
		rev.Status = review.StatusSupervisorReview
		rev.SupervisorID = &supervisorID
		selfDone := now.AddDate(0, 0, -2)
		rev.SelfCompletedAt = &selfDone
		return rev
	}

	t.Run("success advances to manager_review", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		rev := inSupervisorReview()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		deps.dir.getApproverFn = func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
			assert.Equal(t, supervisorID, id)
			return approverFor(managerID), nil
		}
		level := 2
		deps.dir.positionLevelFn = func(ctx context.Context, id uuid.UUID) (*int, error) {
			return &level, nil
		}

		resp, err := deps.service.SubmitSupervisor(ctx, rev.ID.String(), supervisorID.String(), supervisorReviewRequest(), now)

		assert.NoError(t, err)
		assert.Equal(t, review.StatusManagerReview, resp.Status)
		assert.Equal(t, managerID.String(), *resp.ManagerID)
		assert.Equal(t, now.Format(time.RFC3339), *resp.SupervisorCompletedAt)
		assert.Nil(t, resp.ManagerCompletedAt)
		assert.Equal(t, 4, resp.Criteria.CostConsciousness)
		assert.Equal(t, 50, resp.CompletionPercent)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success level-3 supervisor approves in one step", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		rev := inSupervisorReview()
		instanceStatus := ""
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		level := 3
		deps.dir.positionLevelFn = func(ctx context.Context, id uuid.UUID) (*int, error) {
			assert.Equal(t, supervisorID, id)
			return &level, nil
		}
		deps.repo.updateInstanceStatusFn = func(ctx context.Context, id, status string) error {
			instanceStatus = status
			return nil
		}

		resp, err := deps.service.SubmitSupervisor(ctx, rev.ID.String(), supervisorID.String(), supervisorReviewRequest(), now)

		assert.NoError(t, err)
		assert.Equal(t, review.StatusApproved, resp.Status)
		assert.Equal(t, supervisorID.String(), *resp.ManagerID)
		assert.Equal(t, now.Format(time.RFC3339), *resp.ManagerCompletedAt)
		assert.Equal(t, "completed", instanceStatus)
		assert.Equal(t, 100, resp.CompletionPercent)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success persists supervisor overrides", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		rev := inSupervisorReview()
		taskID := uuid.New().String()
		overrideApplied := false

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		deps.dir.getApproverFn = func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
			return approverFor(managerID), nil
		}
		deps.repo.setSupervisorRatingFn = func(ctx context.Context, reviewID, tID string, rating int, comments string) error {
			assert.Equal(t, rev.ID.String(), reviewID)
			assert.Equal(t, taskID, tID)
			assert.Equal(t, 2, rating)
			overrideApplied = true
			return nil
		}

		req := supervisorReviewRequest()
		req.Overrides = []review.OverrideRatingInput{{TaskID: taskID, Rating: 2, Comments: "Self rating too generous"}}

		_, err := deps.service.SubmitSupervisor(ctx, rev.ID.String(), supervisorID.String(), req, now)

		assert.NoError(t, err)
		assert.True(t, overrideApplied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative actor is neither supervisor nor their approver", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := inSupervisorReview()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		deps.dir.getApproverFn = func(ctx context.Context, id uuid.UUID) (*directory.EmployeeRef, error) {
			return approverFor(managerID), nil
		}

		_, err := deps.service.SubmitSupervisor(ctx, rev.ID.String(), uuid.New().String(), supervisorReviewRequest(), now)

		assert.ErrorIs(t, err, reviewerrors.ErrNotAuthorized)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative validation reports every bad field at once", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		req := review.SupervisorReviewRequest{
			Criteria: review.CriteriaRatings{
				CostConsciousness: 0,
				Dependability:     6,
				Communication:     3,
				WorkEthics:        4,
				Attendance:        5,
			},
		}

		_, err := deps.service.SubmitSupervisor(ctx, uuid.New().String(), supervisorID.String(), req, now)

		assert.Error(t, err)
		details := errorDetails(t, err)
		assert.Contains(t, details, "criteria.cost_consciousness")
		assert.Contains(t, details, "criteria.dependability")
		assert.Contains(t, details, "strengths")
		assert.Contains(t, details, "weaknesses")
		assert.Len(t, details, 4)
	})

	t.Run("negative review still pending", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := pendingReview(employeeID, &instanceID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.SubmitSupervisor(ctx, rev.ID.String(), supervisorID.String(), supervisorReviewRequest(), now)

		assert.ErrorIs(t, err, reviewerrors.ErrInvalidStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestReviewService_ManagerDecide(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	supervisorID := uuid.New()
	managerID := uuid.New()
	instanceID := uuid.New()
	now, _ := time.Parse(time.RFC3339, "2024-06-20T09:00:00Z")

	inManagerReview := func() *review.Review {
		rev := pendingReview(employeeID, &instanceID)
		rev.Status = review.StatusManagerReview
		rev.SupervisorID = &supervisorID
		rev.ManagerID = &managerID
		selfDone := now.AddDate(0, 0, -10)
		supDone := now.AddDate(0, 0, -5)
		rev.SelfCompletedAt = &selfDone
		rev.SupervisorCompletedAt = &supDone
		return rev
	}

	t.Run("success approve reaches terminal state", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		rev := inManagerReview()
		instanceStatus := ""
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		deps.repo.updateInstanceStatusFn = func(ctx context.Context, id, status string) error {
			instanceStatus = status
			return nil
		}

		resp, err := deps.service.ManagerDecide(ctx, rev.ID.String(), managerID.String(),
			review.ManagerDecisionRequest{Decision: "approve", Comments: "Well earned"}, now)

		assert.NoError(t, err)
		assert.Equal(t, review.StatusApproved, resp.Status)
		assert.Equal(t, now.Format(time.RFC3339), *resp.ManagerCompletedAt)
		assert.Equal(t, "completed", instanceStatus)
		assert.Equal(t, 100, resp.CompletionPercent)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success disapprove returns record to supervisor for rework", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		rev := inManagerReview()
		instanceStatus := ""
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}
		deps.repo.updateInstanceStatusFn = func(ctx context.Context, id, status string) error {
			instanceStatus = status
			return nil
		}

		resp, err := deps.service.ManagerDecide(ctx, rev.ID.String(), managerID.String(),
			review.ManagerDecisionRequest{Decision: "disapprove", Comments: "Criteria need evidence"}, now)

		assert.NoError(t, err)
		assert.Equal(t, review.StatusSupervisorReview, resp.Status)
		assert.Nil(t, resp.ManagerID)
		assert.Nil(t, resp.ManagerCompletedAt)
		// The supervisor stamp is cleared too: the next supervisor
		// submission must be a fresh one.
		assert.Nil(t, resp.SupervisorCompletedAt)
		assert.Equal(t, "Criteria need evidence", resp.ManagerComments)
		assert.Equal(t, "in_progress", instanceStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative disapprove without comments", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := inManagerReview()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.ManagerDecide(ctx, rev.ID.String(), managerID.String(),
			review.ManagerDecisionRequest{Decision: "disapprove"}, now)

		assert.ErrorIs(t, err, reviewerrors.ErrCommentsRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative actor is not the snapshotted manager", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := inManagerReview()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.ManagerDecide(ctx, rev.ID.String(), supervisorID.String(),
			review.ManagerDecisionRequest{Decision: "approve"}, now)

		assert.ErrorIs(t, err, reviewerrors.ErrNotAuthorized)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative review not in manager_review", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		rev := pendingReview(employeeID, &instanceID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*review.Review, error) {
			return rev, nil
		}

		_, err := deps.service.ManagerDecide(ctx, rev.ID.String(), managerID.String(),
			review.ManagerDecisionRequest{Decision: "approve"}, now)

		assert.ErrorIs(t, err, reviewerrors.ErrInvalidStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestReviewService_Tasks(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("success add task", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		deps.repo.createTaskFn = func(ctx context.Context, task *review.Task) error {
			assert.Equal(t, employeeID, task.EmployeeID)
			assert.Equal(t, "Close out monthly reconciliation", task.Description)
			return nil
		}

		resp, err := deps.service.AddTask(ctx, employeeID.String(),
			review.CreateTaskRequest{Description: "Close out monthly reconciliation"})

		assert.NoError(t, err)
		assert.Equal(t, "Close out monthly reconciliation", resp.Description)
	})

	t.Run("success list tasks", func(t *testing.T) {
		deps := setupReviewServiceTest(t)
		defer deps.db.Close()

		deps.repo.listTasksFn = func(ctx context.Context, id string) ([]review.Task, error) {
			return []review.Task{
				{ID: uuid.New(), EmployeeID: employeeID, Description: "Task A"},
				{ID: uuid.New(), EmployeeID: employeeID, Description: "Task B"},
			}, nil
		}

		resp, err := deps.service.ListTasks(ctx, employeeID.String())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}

// errorDetails unwraps the per-field validation map carried by an
// aggregated validation error.
func errorDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	details, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected map[string]string details, got %T", appErr.Details)
	}
	return details
}
