// Package report aggregates completed reviews into per-employee and
// organization-wide score summaries, bucketed by fiscal quarter.
package report

import (
	"time"

	"go-appraise/internal/fiscal"
)

// ScoreRow is one review flattened for aggregation: per-task rating
// averages come from SQL, criteria stay as columns and are averaged here.
type ScoreRow struct {
	EmployeeID   string    `gorm:"column:employee_id"`
	EmployeeName string    `gorm:"column:employee_name"`
	PeriodStart  time.Time `gorm:"column:period_start"`
	Status       string    `gorm:"column:status"`

	SelfAvg       *float64 `gorm:"column:self_avg"`
	SupervisorAvg *float64 `gorm:"column:supervisor_avg"`

	CostConsciousness *int `gorm:"column:cost_consciousness"`
	Dependability     *int `gorm:"column:dependability"`
	Communication     *int `gorm:"column:communication"`
	WorkEthics        *int `gorm:"column:work_ethics"`
	Attendance        *int `gorm:"column:attendance"`
}

// CriteriaAvg averages whichever of the five criteria are present.
// Nil when none have been assigned yet.
func (r ScoreRow) CriteriaAvg() *float64 {
	return AvgCriteria(r.CostConsciousness, r.Dependability, r.Communication, r.WorkEthics, r.Attendance)
}

// AvgSelfRatings averages an employee's task self-ratings; nil when the
// review has no rated tasks.
func AvgSelfRatings(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return &avg
}

// AvgOverrideRatings averages only the ratings a supervisor actually
// overrode; tasks without an override do not dilute the figure.
func AvgOverrideRatings(ratings []*int) *float64 {
	sum, n := 0, 0
	for _, r := range ratings {
		if r != nil {
			sum += *r
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

// AvgCriteria averages the present values; nil when every input is nil.
// No-data and zero are different answers and must stay distinguishable.
func AvgCriteria(vals ...*int) *float64 {
	sum, n := 0, 0
	for _, v := range vals {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

// QuarterlyBuckets groups the rows' scores by the fiscal quarter of their
// period start. Note fiscal quarters, not the calendar quarters the
// scheduler keys quarterly periods by. pick selects which score to
// bucket; rows where it returns nil are left out of their quarter
// entirely.
func QuarterlyBuckets(rows []ScoreRow, pick func(ScoreRow) *float64) map[int][]float64 {
	buckets := make(map[int][]float64, 4)
	for _, row := range rows {
		v := pick(row)
		if v == nil {
			continue
		}
		q := fiscal.Quarter(row.PeriodStart)
		buckets[q] = append(buckets[q], *v)
	}
	return buckets
}

// QuarterlyAverages reduces each bucket to its mean. Quarters with no
// scored rows map to nil rather than zero.
func QuarterlyAverages(buckets map[int][]float64) map[int]*float64 {
	averages := make(map[int]*float64, 4)
	for q := 1; q <= 4; q++ {
		vals, ok := buckets[q]
		if !ok || len(vals) == 0 {
			averages[q] = nil
			continue
		}
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		avg := sum / float64(len(vals))
		averages[q] = &avg
	}
	return averages
}

// TotalObserved is the yearly figure averaged over only the quarters
// that have data; nil when no quarter does. Used by the per-period
// report sheet.
func TotalObserved(quarterAvgs map[int]*float64) *float64 {
	sum, n := 0.0, 0
	for _, v := range quarterAvgs {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	total := sum / float64(n)
	return &total
}

// TotalZeroFilled is the yearly figure averaged over all four quarters
// with empty quarters counted as zero. The yearly-employee rollup sheet
// uses this policy; it diverges from TotalObserved whenever any quarter
// is empty, and both are kept as separately named operations on purpose.
func TotalZeroFilled(quarterAvgs map[int]*float64) float64 {
	sum := 0.0
	for q := 1; q <= 4; q++ {
		if v := quarterAvgs[q]; v != nil {
			sum += *v
		}
	}
	return sum / 4
}

// CompletionRate is completed over total as a 0-100 percentage; zero
// instances yields zero, not NaN.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
