package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-appraise/internal/fiscal"

	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cached reports go stale within this window; reviews move at human
// pace, so a short TTL is enough and no invalidation plumbing is needed.
const cacheTTL = 5 * time.Minute

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	EmployeeReport(ctx context.Context, employeeID string, fiscalYear int) (EmployeeReportResponse, error)
	OrgSummary(ctx context.Context, fiscalYear int) (OrgSummaryResponse, error)
	// ExportWorkbook builds the yearly score workbook. The caller owns
	// closing the file.
	ExportWorkbook(ctx context.Context, fiscalYear int) (*excelize.File, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) EmployeeReport(ctx context.Context, employeeID string, fiscalYear int) (EmployeeReportResponse, error) {
	cacheKey := fmt.Sprintf("report:employee:%s:%d", employeeID, fiscalYear)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp EmployeeReportResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				s.logger.Debug("employee report cache hit", zap.String("key", cacheKey))
				return resp, nil
			}
		}
	}

	// singleflight collapses concurrent cache misses for the same
	// employee/year into one aggregation run.
	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		resp, err := s.buildEmployeeReport(ctx, employeeID, fiscalYear)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
					s.logger.Warn("employee report cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return EmployeeReportResponse{}, err
	}
	return v.(EmployeeReportResponse), nil
}

func (s *service) buildEmployeeReport(ctx context.Context, employeeID string, fiscalYear int) (EmployeeReportResponse, error) {
	from, to := fiscal.YearBounds(fiscalYear, time.UTC)

	rows, err := s.repo.ListScoreRows(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("list score rows failed",
			zap.String("employee_id", employeeID),
			zap.Int("fiscal_year", fiscalYear),
			zap.Error(err),
		)
		return EmployeeReportResponse{}, err
	}

	total, completed, err := s.repo.CountInstances(ctx, employeeID, from, to)
	if err != nil {
		return EmployeeReportResponse{}, err
	}

	selfBuckets := QuarterlyBuckets(rows, func(r ScoreRow) *float64 { return r.SelfAvg })
	supBuckets := QuarterlyBuckets(rows, func(r ScoreRow) *float64 { return r.SupervisorAvg })
	critBuckets := QuarterlyBuckets(rows, func(r ScoreRow) *float64 { return r.CriteriaAvg() })

	selfAvgs := QuarterlyAverages(selfBuckets)
	supAvgs := QuarterlyAverages(supBuckets)

	return EmployeeReportResponse{
		EmployeeID: employeeID,
		FiscalYear: fiscalYear,

		SelfQuarters:       quarterScores(selfBuckets, selfAvgs),
		SupervisorQuarters: quarterScores(supBuckets, supAvgs),
		CriteriaQuarters:   quarterScores(critBuckets, QuarterlyAverages(critBuckets)),

		SelfTotalObserved:         TotalObserved(selfAvgs),
		SelfTotalZeroFilled:       TotalZeroFilled(selfAvgs),
		SupervisorTotalObserved:   TotalObserved(supAvgs),
		SupervisorTotalZeroFilled: TotalZeroFilled(supAvgs),

		TotalInstances:     total,
		CompletedInstances: completed,
		CompletionRate:     CompletionRate(completed, total),
	}, nil
}

func (s *service) OrgSummary(ctx context.Context, fiscalYear int) (OrgSummaryResponse, error) {
	from, to := fiscal.YearBounds(fiscalYear, time.UTC)

	total, completed, err := s.repo.CountInstances(ctx, "", from, to)
	if err != nil {
		return OrgSummaryResponse{}, err
	}

	rows, err := s.repo.ListAllScoreRows(ctx, from, to)
	if err != nil {
		return OrgSummaryResponse{}, err
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.EmployeeID] = struct{}{}
	}

	return OrgSummaryResponse{
		FiscalYear:         fiscalYear,
		TotalInstances:     total,
		CompletedInstances: completed,
		CompletionRate:     CompletionRate(completed, total),
		ReviewedEmployees:  len(seen),
	}, nil
}

func quarterScores(buckets map[int][]float64, avgs map[int]*float64) []QuarterScore {
	scores := make([]QuarterScore, 4)
	for q := 1; q <= 4; q++ {
		scores[q-1] = QuarterScore{
			Quarter: q,
			Average: avgs[q],
			Count:   len(buckets[q]),
		}
	}
	return scores
}
