package report

import (
	"context"
	"fmt"
	"time"

	"go-appraise/internal/fiscal"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const scoresSheet = "Scores"

// ExportWorkbook builds the organization-wide yearly workbook: one row
// per scored review plus a summary block. Fresh data each call; exports
// bypass the report cache.
func (s *service) ExportWorkbook(ctx context.Context, fiscalYear int) (*excelize.File, error) {
	from, to := fiscal.YearBounds(fiscalYear, time.UTC)

	rows, err := s.repo.ListAllScoreRows(ctx, from, to)
	if err != nil {
		s.logger.Error("export list rows failed", zap.Int("fiscal_year", fiscalYear), zap.Error(err))
		return nil, err
	}

	total, completed, err := s.repo.CountInstances(ctx, "", from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), scoresSheet); err != nil {
		f.Close()
		return nil, err
	}

	headers := []string{
		"Employee", "Period Start", "Fiscal Quarter", "Status",
		"Self Avg", "Supervisor Avg", "Criteria Avg",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(scoresSheet, cell, h); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{
			row.EmployeeName,
			row.PeriodStart.Format("2006-01-02"),
			fmt.Sprintf("Q%d", fiscal.Quarter(row.PeriodStart)),
			row.Status,
			exportScore(row.SelfAvg),
			exportScore(row.SupervisorAvg),
			exportScore(row.CriteriaAvg()),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(scoresSheet, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	summaryRow := len(rows) + 3
	summary := [][2]any{
		{"Fiscal Year", fmt.Sprintf("%d/%d", fiscalYear, fiscalYear+1)},
		{"Total Instances", total},
		{"Completed Instances", completed},
		{"Completion Rate", fmt.Sprintf("%.1f%%", CompletionRate(completed, total))},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err := f.SetCellValue(scoresSheet, labelCell, pair[0]); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(scoresSheet, valueCell, pair[1]); err != nil {
			f.Close()
			return nil, err
		}
	}

	s.logger.Info("score workbook built",
		zap.Int("fiscal_year", fiscalYear),
		zap.Int("rows", len(rows)),
	)
	return f, nil
}

// exportScore renders nil as an empty cell; a zero would read as a real
// score of zero.
func exportScore(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
