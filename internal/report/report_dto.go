package report

// QuarterScore is one fiscal quarter's average; a nil average means no
// scored reviews landed in the quarter, which is not the same as zero.
type QuarterScore struct {
	Quarter int      `json:"quarter"`
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

type EmployeeReportResponse struct {
	EmployeeID string `json:"employee_id"`
	FiscalYear int    `json:"fiscal_year"`

	SelfQuarters       []QuarterScore `json:"self_quarters"`
	SupervisorQuarters []QuarterScore `json:"supervisor_quarters"`
	CriteriaQuarters   []QuarterScore `json:"criteria_quarters"`

	// The two yearly totals use different policies on purpose: observed
	// averages only quarters with data, zero-filled averages all four.
	SelfTotalObserved         *float64 `json:"self_total_observed"`
	SelfTotalZeroFilled       float64  `json:"self_total_zero_filled"`
	SupervisorTotalObserved   *float64 `json:"supervisor_total_observed"`
	SupervisorTotalZeroFilled float64  `json:"supervisor_total_zero_filled"`

	TotalInstances     int64   `json:"total_instances"`
	CompletedInstances int64   `json:"completed_instances"`
	CompletionRate     float64 `json:"completion_rate"`
}

type OrgSummaryResponse struct {
	FiscalYear         int     `json:"fiscal_year"`
	TotalInstances     int64   `json:"total_instances"`
	CompletedInstances int64   `json:"completed_instances"`
	CompletionRate     float64 `json:"completion_rate"`
	ReviewedEmployees  int     `json:"reviewed_employees"`
}
