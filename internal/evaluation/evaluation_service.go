package evaluation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-appraise/internal/directory"
	evaluationerrors "go-appraise/internal/evaluation/errors"
	"go-appraise/internal/fiscal"
	"go-appraise/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=evaluation_service.go -destination=mock/evaluation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateEvaluationRequest) (EvaluationResponse, error)
	GetAll(ctx context.Context) ([]EvaluationResponse, error)
	GetByID(ctx context.Context, id string) (EvaluationResponse, error)
	Update(ctx context.Context, id string, req UpdateEvaluationRequest) (EvaluationResponse, error)
	Delete(ctx context.Context, id string) error

	// Materialize creates missing instances for elapsed periods. A nil
	// evaluationID covers every active evaluation. A single employee's
	// failure never aborts the batch.
	Materialize(ctx context.Context, evaluationID *string, now time.Time) (MaterializeResponse, error)
	// MarkOverdue flips pending/in_progress instances past their due
	// date to overdue. Idempotent.
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
	// ListInstances materializes what is missing for the employee and
	// runs the overdue scan before listing, so displayed statuses are
	// current.
	ListInstances(ctx context.Context, employeeID string, now time.Time) ([]InstanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	dir    directory.Directory
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, dir directory.Directory, logger ...*zap.Logger) Service {
	l := zap.L().Named("evaluation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("evaluation.service")
	}
	return &service{db: db, repo: repo, dir: dir, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateEvaluationRequest) (EvaluationResponse, error) {
	s.logger.Debug("create evaluation requested",
		zap.String("actor_id", actorID),
		zap.String("cadence", req.Cadence),
		zap.Int("start_year", req.StartYear),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return EvaluationResponse{}, evaluationerrors.ErrInvalidActorID
	}
	if !schedule.Cadence(req.Cadence).Valid() {
		return EvaluationResponse{}, evaluationerrors.ErrInvalidCadence
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return EvaluationResponse{}, err
	}
	if fiscal.Year(startDate) != req.StartYear {
		return EvaluationResponse{}, evaluationerrors.ErrInvalidStartYear
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create evaluation begin tx failed", zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Evaluation{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Cadence:     req.Cadence,
		StartYear:   req.StartYear,
		EndYear:     req.StartYear + 1,
		StartDate:   startDate,
		IsActive:    true,
		CreatedBy:   actorUUID,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create evaluation persist failed", zap.Error(err))
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create evaluation commit failed", zap.Error(err))
		return EvaluationResponse{}, err
	}
	s.logger.Info("create evaluation success",
		zap.String("evaluation_id", e.ID.String()),
		zap.String("cadence", e.Cadence),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EvaluationResponse, error) {
	evaluations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]EvaluationResponse, len(evaluations))
	for i, e := range evaluations {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EvaluationResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

// Update only touches metadata. Cadence and the anchor date are not
// accepted here at all: once instances exist there is no defined way to
// re-interpret already-generated periods under a different cadence.
func (s *service) Update(ctx context.Context, id string, req UpdateEvaluationRequest) (EvaluationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update evaluation begin tx failed", zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	e.Title = req.Title
	e.Description = req.Description
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update evaluation persist failed",
			zap.String("evaluation_id", id),
			zap.Error(err),
		)
		return EvaluationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update evaluation commit failed", zap.Error(err))
		return EvaluationResponse{}, err
	}

	s.logger.Info("update evaluation success", zap.String("evaluation_id", id))
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Materialize(ctx context.Context, evaluationID *string, now time.Time) (MaterializeResponse, error) {
	var (
		evaluations []Evaluation
		err         error
	)

	if evaluationID != nil {
		var e *Evaluation
		e, err = s.repo.FindByID(ctx, *evaluationID)
		if err != nil {
			return MaterializeResponse{}, mapRepositoryError(err)
		}
		evaluations = []Evaluation{*e}
	} else {
		evaluations, err = s.repo.FindActive(ctx)
		if err != nil {
			return MaterializeResponse{}, err
		}
	}

	employees, err := s.dir.ListEligible(ctx)
	if err != nil {
		return MaterializeResponse{}, err
	}

	var resp MaterializeResponse
	for _, e := range evaluations {
		if !e.IsActive {
			continue
		}
		for _, emp := range employees {
			created, err := s.materializeEmployee(ctx, e, emp.ID, now)
			if err != nil {
				// Failure isolation: log, count, move on.
				s.logger.Warn("materialize employee failed",
					zap.String("evaluation_id", e.ID.String()),
					zap.String("employee_id", emp.ID.String()),
					zap.Error(err),
				)
				resp.Skipped++
				continue
			}
			resp.Created += created
		}
	}

	s.logger.Info("materialize complete",
		zap.Int("created", resp.Created),
		zap.Int("skipped_employees", resp.Skipped),
	)
	return resp, nil
}

// materializeEmployee creates every missing instance for one employee.
// The unique index on (evaluation, employee, period_key) is the real
// concurrency guard: a duplicate insert from a racing request maps to
// ErrInstanceExists and is treated as already materialized.
func (s *service) materializeEmployee(ctx context.Context, e Evaluation, employeeID uuid.UUID, now time.Time) (int, error) {
	existing, err := s.repo.ExistingPeriodKeys(ctx, e.ID.String(), employeeID.String())
	if err != nil {
		return 0, err
	}

	periods := schedule.Generate(schedule.Cadence(e.Cadence), e.StartDate, now, existing)
	created := 0
	for _, p := range periods {
		inst := &EvaluationInstance{
			ID:           uuid.New(),
			EvaluationID: e.ID,
			EmployeeID:   employeeID,
			PeriodKey:    p.Key,
			PeriodStart:  p.Start,
			PeriodEnd:    p.End,
			DueDate:      p.End.AddDate(0, 0, GraceDays),
			Status:       StatusPending,
		}
		if err := s.repo.CreateInstance(ctx, inst); err != nil {
			if errors.Is(mapRepositoryError(err), evaluationerrors.ErrInstanceExists) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	updated, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		s.logger.Error("mark overdue failed", zap.Error(err))
		return 0, err
	}
	if updated > 0 {
		s.logger.Info("marked instances overdue", zap.Int64("count", updated))
	}
	return int(updated), nil
}

func (s *service) ListInstances(ctx context.Context, employeeID string, now time.Time) ([]InstanceResponse, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, evaluationerrors.ErrInvalidEmployeeID
	}

	// Listing drives the scheduler: materialize elapsed periods for this
	// employee and refresh overdue flags before reading.
	active, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range active {
		if _, err := s.materializeEmployee(ctx, e, empUUID, now); err != nil {
			s.logger.Warn("materialize on listing failed",
				zap.String("evaluation_id", e.ID.String()),
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
		}
	}
	if _, err := s.MarkOverdue(ctx, now); err != nil {
		return nil, err
	}

	instances, err := s.repo.ListInstancesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]InstanceResponse, len(instances))
	for i, inst := range instances {
		resp[i] = mapInstanceToResponse(inst)
	}
	return resp, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, evaluationerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(e Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Cadence:     e.Cadence,
		StartYear:   e.StartYear,
		EndYear:     e.EndYear,
		StartDate:   e.StartDate.Format("2006-01-02"),
		IsActive:    e.IsActive,
		CreatedBy:   e.CreatedBy.String(),
	}
}

func mapInstanceToResponse(inst EvaluationInstance) InstanceResponse {
	return InstanceResponse{
		ID:           inst.ID.String(),
		EvaluationID: inst.EvaluationID.String(),
		EmployeeID:   inst.EmployeeID.String(),
		PeriodKey:    inst.PeriodKey,
		PeriodStart:  inst.PeriodStart.Format(time.RFC3339),
		PeriodEnd:    inst.PeriodEnd.Format(time.RFC3339),
		DueDate:      inst.DueDate.Format(time.RFC3339),
		Status:       inst.Status,
	}
}
