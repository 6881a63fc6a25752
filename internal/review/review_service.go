package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-appraise/internal/directory"
	"go-appraise/internal/notification"
	reviewerrors "go-appraise/internal/review/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Position level that collapses the supervisor and manager approval
// steps into one.
const managerPositionLevel = 3

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	// Start returns the review for an instance, creating it on first
	// access. Rejected up front when the employee has no approver.
	Start(ctx context.Context, instanceID, employeeID string) (ReviewResponse, error)
	Get(ctx context.Context, reviewID, actorID string) (ReviewResponse, error)
	SubmitSelf(ctx context.Context, reviewID, employeeID string, req SubmitSelfRequest, now time.Time) (ReviewResponse, error)
	SubmitSupervisor(ctx context.Context, reviewID, actorID string, req SupervisorReviewRequest, now time.Time) (ReviewResponse, error)
	ManagerDecide(ctx context.Context, reviewID, actorID string, req ManagerDecisionRequest, now time.Time) (ReviewResponse, error)

	AddTask(ctx context.Context, employeeID string, req CreateTaskRequest) (TaskResponse, error)
	ListTasks(ctx context.Context, employeeID string) ([]TaskResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	dir      directory.Directory
	notifier notification.Notifier
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, dir directory.Directory, notifier notification.Notifier, logger ...*zap.Logger) Service {
	l := zap.L().Named("review.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("review.service")
	}
	return &service{db: db, repo: repo, dir: dir, notifier: notifier, logger: l}
}

func (s *service) Start(ctx context.Context, instanceID, employeeID string) (ReviewResponse, error) {
	s.logger.Debug("start review requested",
		zap.String("instance_id", instanceID),
		zap.String("employee_id", employeeID),
	)

	instUUID, err := uuid.Parse(instanceID)
	if err != nil {
		return ReviewResponse{}, reviewerrors.ErrInvalidInstanceID
	}
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return ReviewResponse{}, reviewerrors.ErrInvalidActorID
	}

	inst, err := s.repo.FindInstance(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, reviewerrors.ErrInstanceNotFound
		}
		return ReviewResponse{}, err
	}
	if inst.EmployeeID != employeeID {
		return ReviewResponse{}, reviewerrors.ErrNotInstanceOwner
	}

	// Precondition check, not a mid-transition failure: the workflow
	// cannot start for an employee with no approver configured.
	approver, err := s.dir.GetApprover(ctx, empUUID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if approver == nil {
		return ReviewResponse{}, reviewerrors.ErrNoApprover
	}

	if existing, err := s.repo.FindByInstance(ctx, instanceID); err == nil {
		return mapToResponse(*existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ReviewResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("start review begin tx failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	evalUUID, err := uuid.Parse(inst.EvaluationID)
	if err != nil {
		return ReviewResponse{}, err
	}

	rev := &Review{
		ID:           uuid.New(),
		EvaluationID: evalUUID,
		InstanceID:   &instUUID,
		EmployeeID:   empUUID,
		Status:       StatusPending,
	}
	if err := qtx.Create(ctx, rev); err != nil {
		s.logger.Error("start review persist failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("start review commit failed", zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("review created",
		zap.String("review_id", rev.ID.String()),
		zap.String("instance_id", instanceID),
	)
	return mapToResponse(*rev), nil
}

func (s *service) Get(ctx context.Context, reviewID, actorID string) (ReviewResponse, error) {
	rev, err := s.findReview(ctx, s.repo, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !isParticipant(rev, actorID) {
		return ReviewResponse{}, reviewerrors.ErrNotAuthorized
	}
	return mapToResponse(*rev), nil
}

func (s *service) SubmitSelf(ctx context.Context, reviewID, employeeID string, req SubmitSelfRequest, now time.Time) (ReviewResponse, error) {
	s.logger.Debug("submit self requested",
		zap.String("review_id", reviewID),
		zap.String("employee_id", employeeID),
		zap.Int("ratings", len(req.Ratings)),
	)

	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return ReviewResponse{}, reviewerrors.ErrInvalidActorID
	}

	if fields := validateSelfRatings(req.Ratings); len(fields) > 0 {
		return ReviewResponse{}, reviewerrors.ErrValidationFailed.WithDetails(fields)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit self begin tx failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rev, err := s.findReview(ctx, qtx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if rev.EmployeeID != empUUID {
		return ReviewResponse{}, reviewerrors.ErrNotAuthorized
	}
	if rev.SelfCompletedAt != nil {
		return ReviewResponse{}, reviewerrors.ErrAlreadySubmitted
	}

	// Snapshot the current approver; later directory changes do not move
	// this record.
	approver, err := s.dir.GetApprover(ctx, empUUID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if approver == nil {
		return ReviewResponse{}, reviewerrors.ErrNoApprover
	}

	supervisorID := approver.ID
	rev.SupervisorID = &supervisorID
	rev.SelfCompletedAt = &now
	rev.Status = StatusSupervisorReview

	for _, in := range req.Ratings {
		taskUUID, err := uuid.Parse(in.TaskID)
		if err != nil {
			return ReviewResponse{}, reviewerrors.ErrValidationFailed.WithDetails(
				map[string]string{"task_id": "invalid task id: " + in.TaskID},
			)
		}
		tr := &TaskRating{
			ID:         uuid.New(),
			ReviewID:   rev.ID,
			TaskID:     taskUUID,
			SelfRating: in.Rating,
			Comments:   in.Comments,
		}
		if err := qtx.UpsertTaskRating(ctx, tr); err != nil {
			s.logger.Error("persist task rating failed", zap.Error(err))
			return ReviewResponse{}, err
		}
	}

	if err := s.applyTransition(ctx, qtx, rev); err != nil {
		return ReviewResponse{}, err
	}

	s.notify(ctx, tx, supervisorID,
		"Evaluation ready for review",
		fmt.Sprintf("%s submitted a self-evaluation for your review.", approverDisplayName(rev.EmployeeID)),
		"approval",
	)

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit self commit failed", zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("self evaluation submitted",
		zap.String("review_id", reviewID),
		zap.String("supervisor_id", supervisorID.String()),
	)
	return mapToResponse(*rev), nil
}

// SubmitSupervisor serves both the supervisor and, transitively, the
// manager: a record in supervisor_review or manager_review accepts it,
// because a level-3 supervisor collapses both roles.
func (s *service) SubmitSupervisor(ctx context.Context, reviewID, actorID string, req SupervisorReviewRequest, now time.Time) (ReviewResponse, error) {
	s.logger.Debug("submit supervisor review requested",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReviewResponse{}, reviewerrors.ErrInvalidActorID
	}

	if fields := validateSupervisorReview(req); len(fields) > 0 {
		return ReviewResponse{}, reviewerrors.ErrValidationFailed.WithDetails(fields)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit supervisor begin tx failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rev, err := s.findReview(ctx, qtx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if rev.Status != StatusSupervisorReview && rev.Status != StatusManagerReview {
		return ReviewResponse{}, reviewerrors.ErrInvalidStatus
	}
	if rev.SupervisorID == nil {
		return ReviewResponse{}, reviewerrors.ErrInvalidStatus
	}

	supervisorApprover, err := s.dir.GetApprover(ctx, *rev.SupervisorID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !isSupervisorOrTheirApprover(rev, actorUUID, supervisorApprover) {
		s.logger.Warn("supervisor review rejected",
			zap.String("review_id", reviewID),
			zap.String("actor_id", actorID),
		)
		return ReviewResponse{}, reviewerrors.ErrNotAuthorized
	}

	applyCriteria(rev, req)
	rev.SupervisorCompletedAt = &now

	level, err := s.dir.PositionLevel(ctx, actorUUID)
	if err != nil {
		return ReviewResponse{}, err
	}

	var notifyID *uuid.UUID
	var notifyTitle, notifyMessage string

	if level != nil && *level == managerPositionLevel {
		// Top-tier supervisor acts as both supervisor and manager in
		// one step: terminal approval, manager_review skipped.
		actorCopy := actorUUID
		rev.ManagerID = &actorCopy
		rev.ManagerCompletedAt = &now
		rev.Status = StatusApproved

		notifyID = &rev.EmployeeID
		notifyTitle = "Evaluation approved"
		notifyMessage = "Your evaluation has been reviewed and approved."
	} else {
		if supervisorApprover != nil {
			managerID := supervisorApprover.ID
			rev.ManagerID = &managerID
			notifyID = &managerID
			notifyTitle = "Evaluation awaiting your decision"
			notifyMessage = "A reviewed evaluation is waiting for your approval."
		}
		if rev.Status == StatusSupervisorReview {
			rev.Status = StatusManagerReview
		}
	}

	for _, o := range req.Overrides {
		if err := qtx.SetSupervisorRating(ctx, reviewID, o.TaskID, o.Rating, o.Comments); err != nil {
			s.logger.Error("persist override rating failed", zap.Error(err))
			return ReviewResponse{}, err
		}
	}

	if err := s.applyTransition(ctx, qtx, rev); err != nil {
		return ReviewResponse{}, err
	}

	if notifyID != nil {
		s.notify(ctx, tx, *notifyID, notifyTitle, notifyMessage, "approval")
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit supervisor commit failed", zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("supervisor review submitted",
		zap.String("review_id", reviewID),
		zap.String("status", rev.Status),
	)
	return mapToResponse(*rev), nil
}

func (s *service) ManagerDecide(ctx context.Context, reviewID, actorID string, req ManagerDecisionRequest, now time.Time) (ReviewResponse, error) {
	s.logger.Debug("manager decision requested",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Decision),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReviewResponse{}, reviewerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("manager decision begin tx failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rev, err := s.findReview(ctx, qtx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if rev.Status != StatusManagerReview {
		return ReviewResponse{}, reviewerrors.ErrInvalidStatus
	}
	if rev.ManagerID == nil || *rev.ManagerID != actorUUID {
		return ReviewResponse{}, reviewerrors.ErrNotAuthorized
	}

	var notifyID uuid.UUID
	var notifyTitle, notifyMessage string

	switch req.Decision {
	case "approve":
		rev.Status = StatusApproved
		rev.ManagerCompletedAt = &now
		rev.ManagerComments = req.Comments

		notifyID = rev.EmployeeID
		notifyTitle = "Evaluation approved"
		notifyMessage = "Your evaluation has been approved."
	case "disapprove":
		if req.Comments == "" {
			return ReviewResponse{}, reviewerrors.ErrCommentsRequired
		}
		// Disapproval is a send-back-for-rework signal, not a terminal
		// rejection: the record re-enters supervisor_review. The
		// supervisor timestamp is cleared too so the next supervisor
		// submission is a fresh one.
		supervisorID := rev.SupervisorID
		rev.ManagerID = nil
		rev.ManagerCompletedAt = nil
		rev.SupervisorCompletedAt = nil
		rev.Status = StatusSupervisorReview
		rev.ManagerComments = req.Comments

		if supervisorID != nil {
			notifyID = *supervisorID
		}
		notifyTitle = "Evaluation returned for rework"
		notifyMessage = "The manager returned an evaluation with comments."
	default:
		return ReviewResponse{}, reviewerrors.ErrValidationFailed.WithDetails(
			map[string]string{"decision": "decision must be approve or disapprove"},
		)
	}

	if err := s.applyTransition(ctx, qtx, rev); err != nil {
		return ReviewResponse{}, err
	}

	if notifyID != uuid.Nil {
		s.notify(ctx, tx, notifyID, notifyTitle, notifyMessage, "approval")
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("manager decision commit failed", zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("manager decision applied",
		zap.String("review_id", reviewID),
		zap.String("decision", req.Decision),
		zap.String("status", rev.Status),
	)
	return mapToResponse(*rev), nil
}

func (s *service) AddTask(ctx context.Context, employeeID string, req CreateTaskRequest) (TaskResponse, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return TaskResponse{}, reviewerrors.ErrInvalidActorID
	}

	t := &Task{
		ID:          uuid.New(),
		EmployeeID:  empUUID,
		Description: req.Description,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}

	return TaskResponse{
		ID:          t.ID.String(),
		EmployeeID:  t.EmployeeID.String(),
		Description: t.Description,
	}, nil
}

func (s *service) ListTasks(ctx context.Context, employeeID string) ([]TaskResponse, error) {
	tasks, err := s.repo.ListTasks(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = TaskResponse{
			ID:          t.ID.String(),
			EmployeeID:  t.EmployeeID.String(),
			Description: t.Description,
		}
	}
	return resp, nil
}

// applyTransition persists the review and re-derives the linked instance
// status in the same transaction, so the two rows never disagree.
func (s *service) applyTransition(ctx context.Context, qtx Repository, rev *Review) error {
	if err := qtx.Update(ctx, rev); err != nil {
		s.logger.Error("persist review failed",
			zap.String("review_id", rev.ID.String()),
			zap.Error(err),
		)
		return err
	}

	if rev.InstanceID == nil {
		return nil
	}

	instanceStatus := "in_progress"
	if rev.Status == StatusApproved || rev.Status == StatusDisapproved {
		instanceStatus = "completed"
	}
	return qtx.UpdateInstanceStatus(ctx, rev.InstanceID.String(), instanceStatus)
}

// notify queues a notification inside the caller's transaction. Failures
// are logged and swallowed: notification delivery never blocks or fails a
// workflow transition.
func (s *service) notify(ctx context.Context, tx *sql.Tx, recipientID uuid.UUID, title, message, category string) {
	n := notification.WithTx(s.notifier, tx)
	if err := n.Notify(ctx, recipientID, title, message, category); err != nil {
		s.logger.Warn("queue notification failed",
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) findReview(ctx context.Context, repo Repository, reviewID string) (*Review, error) {
	if _, err := uuid.Parse(reviewID); err != nil {
		return nil, reviewerrors.ErrInvalidReviewID
	}
	rev, err := repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reviewerrors.ErrReviewNotFound
		}
		return nil, err
	}
	return rev, nil
}

func isParticipant(rev *Review, actorID string) bool {
	if rev.EmployeeID.String() == actorID {
		return true
	}
	if rev.SupervisorID != nil && rev.SupervisorID.String() == actorID {
		return true
	}
	if rev.ManagerID != nil && rev.ManagerID.String() == actorID {
		return true
	}
	return false
}

func isSupervisorOrTheirApprover(rev *Review, actor uuid.UUID, supervisorApprover *directory.EmployeeRef) bool {
	if rev.SupervisorID != nil && *rev.SupervisorID == actor {
		return true
	}
	return supervisorApprover != nil && supervisorApprover.ID == actor
}

func validateSelfRatings(ratings []TaskRatingInput) map[string]string {
	fields := make(map[string]string)
	for i, r := range ratings {
		if r.Rating < 1 || r.Rating > 5 {
			fields[fmt.Sprintf("ratings[%d].rating", i)] = "rating must be between 1 and 5"
		}
	}
	return fields
}

// validateSupervisorReview reports every problem at once rather than
// failing on the first bad field.
func validateSupervisorReview(req SupervisorReviewRequest) map[string]string {
	fields := make(map[string]string)

	criteria := map[string]int{
		"criteria.cost_consciousness": req.Criteria.CostConsciousness,
		"criteria.dependability":      req.Criteria.Dependability,
		"criteria.communication":      req.Criteria.Communication,
		"criteria.work_ethics":        req.Criteria.WorkEthics,
		"criteria.attendance":         req.Criteria.Attendance,
	}
	for name, v := range criteria {
		if v < 1 || v > 5 {
			fields[name] = "rating must be between 1 and 5"
		}
	}

	if req.Strengths == "" {
		fields["strengths"] = "strengths is required"
	}
	if req.Weaknesses == "" {
		fields["weaknesses"] = "weaknesses is required"
	}

	for i, o := range req.Overrides {
		if o.Rating < 1 || o.Rating > 5 {
			fields[fmt.Sprintf("overrides[%d].rating", i)] = "rating must be between 1 and 5"
		}
	}

	return fields
}

func applyCriteria(rev *Review, req SupervisorReviewRequest) {
	cc, dep, com, we, att := req.Criteria.CostConsciousness, req.Criteria.Dependability,
		req.Criteria.Communication, req.Criteria.WorkEthics, req.Criteria.Attendance
	rev.CostConsciousness = &cc
	rev.Dependability = &dep
	rev.Communication = &com
	rev.WorkEthics = &we
	rev.Attendance = &att

	rev.CostConsciousnessComment = req.CriteriaComments.CostConsciousness
	rev.DependabilityComment = req.CriteriaComments.Dependability
	rev.CommunicationComment = req.CriteriaComments.Communication
	rev.WorkEthicsComment = req.CriteriaComments.WorkEthics
	rev.AttendanceComment = req.CriteriaComments.Attendance

	rev.Strengths = req.Strengths
	rev.Weaknesses = req.Weaknesses
	rev.TrainingRequired = req.TrainingRequired
	rev.Comments = req.Comments
}

// CompletionPercent is the reporting-only progress figure: a quarter per
// completed stage plus a quarter for reaching a terminal status.
func CompletionPercent(rev Review) int {
	pct := 0
	if rev.SelfCompletedAt != nil {
		pct += 25
	}
	if rev.SupervisorCompletedAt != nil {
		pct += 25
	}
	if rev.ManagerCompletedAt != nil {
		pct += 25
	}
	if rev.Status == StatusApproved || rev.Status == StatusDisapproved {
		pct += 25
	}
	return pct
}

func approverDisplayName(employeeID uuid.UUID) string {
	return "Employee " + employeeID.String()[:8]
}

func mapToResponse(rev Review) ReviewResponse {
	resp := ReviewResponse{
		ID:                rev.ID.String(),
		EvaluationID:      rev.EvaluationID.String(),
		EmployeeID:        rev.EmployeeID.String(),
		Status:            rev.Status,
		Strengths:         rev.Strengths,
		Weaknesses:        rev.Weaknesses,
		TrainingRequired:  rev.TrainingRequired,
		Comments:          rev.Comments,
		ManagerComments:   rev.ManagerComments,
		CompletionPercent: CompletionPercent(rev),
	}
	if rev.InstanceID != nil {
		v := rev.InstanceID.String()
		resp.InstanceID = &v
	}
	if rev.SupervisorID != nil {
		v := rev.SupervisorID.String()
		resp.SupervisorID = &v
	}
	if rev.ManagerID != nil {
		v := rev.ManagerID.String()
		resp.ManagerID = &v
	}
	if rev.SelfCompletedAt != nil {
		v := rev.SelfCompletedAt.Format(time.RFC3339)
		resp.SelfCompletedAt = &v
	}
	if rev.SupervisorCompletedAt != nil {
		v := rev.SupervisorCompletedAt.Format(time.RFC3339)
		resp.SupervisorCompletedAt = &v
	}
	if rev.ManagerCompletedAt != nil {
		v := rev.ManagerCompletedAt.Format(time.RFC3339)
		resp.ManagerCompletedAt = &v
	}
	if rev.CostConsciousness != nil {
		resp.Criteria = &CriteriaRatings{
			CostConsciousness: *rev.CostConsciousness,
			Dependability:     derefOrZero(rev.Dependability),
			Communication:     derefOrZero(rev.Communication),
			WorkEthics:        derefOrZero(rev.WorkEthics),
			Attendance:        derefOrZero(rev.Attendance),
		}
	}
	return resp
}

func derefOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
