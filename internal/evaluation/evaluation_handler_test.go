package evaluation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-appraise/internal/evaluation"
	evaluationerrors "go-appraise/internal/evaluation/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEvaluationService struct {
	createFn        func(ctx context.Context, actorID string, req evaluation.CreateEvaluationRequest) (evaluation.EvaluationResponse, error)
	getAllFn        func(ctx context.Context) ([]evaluation.EvaluationResponse, error)
	getByIDFn       func(ctx context.Context, id string) (evaluation.EvaluationResponse, error)
	updateFn        func(ctx context.Context, id string, req evaluation.UpdateEvaluationRequest) (evaluation.EvaluationResponse, error)
	deleteFn        func(ctx context.Context, id string) error
	materializeFn   func(ctx context.Context, evaluationID *string, now time.Time) (evaluation.MaterializeResponse, error)
	markOverdueFn   func(ctx context.Context, now time.Time) (int, error)
	listInstancesFn func(ctx context.Context, employeeID string, now time.Time) ([]evaluation.InstanceResponse, error)
}

func (f *fakeEvaluationService) Create(ctx context.Context, actorID string, req evaluation.CreateEvaluationRequest) (evaluation.EvaluationResponse, error) {
	if f.createFn != nil {
		return f.createFn(ctx, actorID, req)
	}
	return evaluation.EvaluationResponse{}, nil
}

func (f *fakeEvaluationService) GetAll(ctx context.Context) ([]evaluation.EvaluationResponse, error) {
	if f.getAllFn != nil {
		return f.getAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEvaluationService) GetByID(ctx context.Context, id string) (evaluation.EvaluationResponse, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return evaluation.EvaluationResponse{}, nil
}

func (f *fakeEvaluationService) Update(ctx context.Context, id string, req evaluation.UpdateEvaluationRequest) (evaluation.EvaluationResponse, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return evaluation.EvaluationResponse{}, nil
}

func (f *fakeEvaluationService) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEvaluationService) Materialize(ctx context.Context, evaluationID *string, now time.Time) (evaluation.MaterializeResponse, error) {
	if f.materializeFn != nil {
		return f.materializeFn(ctx, evaluationID, now)
	}
	return evaluation.MaterializeResponse{}, nil
}

func (f *fakeEvaluationService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	if f.markOverdueFn != nil {
		return f.markOverdueFn(ctx, now)
	}
	return 0, nil
}

func (f *fakeEvaluationService) ListInstances(ctx context.Context, employeeID string, now time.Time) ([]evaluation.InstanceResponse, error) {
	if f.listInstancesFn != nil {
		return f.listInstancesFn(ctx, employeeID, now)
	}
	return nil, nil
}

func setupEvaluationRouter(svc evaluation.Service, employeeID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := evaluation.NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("employee_id", employeeID)
		c.Next()
	})
	r.POST("/evaluations", handler.Create)
	r.POST("/evaluations/:id/materialize", handler.Materialize)
	r.GET("/instances", handler.ListInstances)
	return r
}

func TestEvaluationHandler_Create(t *testing.T) {
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEvaluationService{
			createFn: func(ctx context.Context, aid string, req evaluation.CreateEvaluationRequest) (evaluation.EvaluationResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "monthly", req.Cadence)
				return evaluation.EvaluationResponse{
					ID:        uuid.New().String(),
					Title:     req.Title,
					Cadence:   req.Cadence,
					StartYear: req.StartYear,
					EndYear:   req.StartYear + 1,
					IsActive:  true,
				}, nil
			},
		}
		router := setupEvaluationRouter(svc, actorID)

		body, _ := json.Marshal(evaluation.CreateEvaluationRequest{
			Title:     "FY2024 performance cycle",
			Cadence:   "monthly",
			StartYear: 2024,
			StartDate: "2024-05-01",
		})
		req, _ := http.NewRequest(http.MethodPost, "/evaluations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, true, envelope["ok"])
		data := envelope["data"].(map[string]any)
		assert.Equal(t, float64(2025), data["end_year"])
	})

	t.Run("negative cadence outside the enum", func(t *testing.T) {
		svc := &fakeEvaluationService{
			createFn: func(ctx context.Context, aid string, req evaluation.CreateEvaluationRequest) (evaluation.EvaluationResponse, error) {
				t.Fatal("service must not be called on binding failure")
				return evaluation.EvaluationResponse{}, nil
			},
		}
		router := setupEvaluationRouter(svc, actorID)

		req, _ := http.NewRequest(http.MethodPost, "/evaluations",
			bytes.NewBufferString(`{"title":"x","cadence":"weekly","start_year":2024,"start_date":"2024-05-01"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEvaluationHandler_Materialize(t *testing.T) {
	actorID := uuid.New().String()
	evaluationID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEvaluationService{
			materializeFn: func(ctx context.Context, eid *string, now time.Time) (evaluation.MaterializeResponse, error) {
				if assert.NotNil(t, eid) {
					assert.Equal(t, evaluationID, *eid)
				}
				return evaluation.MaterializeResponse{Created: 4, Skipped: 1}, nil
			},
		}
		router := setupEvaluationRouter(svc, actorID)

		req, _ := http.NewRequest(http.MethodPost, "/evaluations/"+evaluationID+"/materialize", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data := envelope["data"].(map[string]any)
		assert.Equal(t, float64(4), data["created"])
		assert.Equal(t, float64(1), data["skipped_employees"])
	})

	t.Run("negative evaluation missing", func(t *testing.T) {
		svc := &fakeEvaluationService{
			materializeFn: func(ctx context.Context, eid *string, now time.Time) (evaluation.MaterializeResponse, error) {
				return evaluation.MaterializeResponse{}, evaluationerrors.ErrEvaluationNotFound
			},
		}
		router := setupEvaluationRouter(svc, actorID)

		req, _ := http.NewRequest(http.MethodPost, "/evaluations/"+evaluationID+"/materialize", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, false, envelope["ok"])
	})
}

func TestEvaluationHandler_ListInstances(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("success lists the caller's instances", func(t *testing.T) {
		svc := &fakeEvaluationService{
			listInstancesFn: func(ctx context.Context, eid string, now time.Time) ([]evaluation.InstanceResponse, error) {
				assert.Equal(t, employeeID, eid)
				return []evaluation.InstanceResponse{
					{ID: uuid.New().String(), PeriodKey: "2024-05", Status: "pending"},
					{ID: uuid.New().String(), PeriodKey: "2024-06", Status: "overdue"},
				}, nil
			},
		}
		router := setupEvaluationRouter(svc, employeeID)

		req, _ := http.NewRequest(http.MethodGet, "/instances", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data := envelope["data"].([]any)
		assert.Len(t, data, 2)
	})
}
