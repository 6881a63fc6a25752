package evaluation

type CreateEvaluationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Cadence     string `json:"cadence" binding:"required,oneof=daily monthly quarterly yearly"`
	StartYear   int    `json:"start_year" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
}

type UpdateEvaluationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active" binding:"required"`
}

type EvaluationResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cadence     string `json:"cadence"`
	StartYear   int    `json:"start_year"`
	EndYear     int    `json:"end_year"`
	StartDate   string `json:"start_date"`
	IsActive    bool   `json:"is_active"`
	CreatedBy   string `json:"created_by"`
}

type InstanceResponse struct {
	ID           string `json:"id"`
	EvaluationID string `json:"evaluation_id"`
	EmployeeID   string `json:"employee_id"`
	PeriodKey    string `json:"period_key"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	DueDate      string `json:"due_date"`
	Status       string `json:"status"`
}

type MaterializeResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped_employees"`
}

type OverdueScanResponse struct {
	Updated int `json:"updated"`
}
