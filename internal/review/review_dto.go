package review

type TaskRatingInput struct {
	TaskID   string `json:"task_id" binding:"required,uuid"`
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

type SubmitSelfRequest struct {
	Ratings []TaskRatingInput `json:"ratings" binding:"required,min=1,dive"`
}

type OverrideRatingInput struct {
	TaskID   string `json:"task_id" binding:"required,uuid"`
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

type CriteriaRatings struct {
	CostConsciousness int `json:"cost_consciousness"`
	Dependability     int `json:"dependability"`
	Communication     int `json:"communication"`
	WorkEthics        int `json:"work_ethics"`
	Attendance        int `json:"attendance"`
}

type CriteriaComments struct {
	CostConsciousness string `json:"cost_consciousness"`
	Dependability     string `json:"dependability"`
	Communication     string `json:"communication"`
	WorkEthics        string `json:"work_ethics"`
	Attendance        string `json:"attendance"`
}

type SupervisorReviewRequest struct {
	Criteria         CriteriaRatings       `json:"criteria" binding:"required"`
	CriteriaComments CriteriaComments      `json:"criteria_comments"`
	Strengths        string                `json:"strengths"`
	Weaknesses       string                `json:"weaknesses"`
	TrainingRequired string                `json:"training_required"`
	Comments         string                `json:"comments"`
	Overrides        []OverrideRatingInput `json:"overrides" binding:"dive"`
}

type ManagerDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve disapprove"`
	Comments string `json:"comments"`
}

type CreateTaskRequest struct {
	Description string `json:"description" binding:"required"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Description string `json:"description"`
}

type TaskRatingResponse struct {
	TaskID           string `json:"task_id"`
	SelfRating       int    `json:"self_rating"`
	SupervisorRating *int   `json:"supervisor_rating,omitempty"`
	Comments         string `json:"comments,omitempty"`
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	EvaluationID string  `json:"evaluation_id"`
	InstanceID   *string `json:"instance_id,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	Status       string  `json:"status"`

	SelfCompletedAt       *string `json:"self_completed_at,omitempty"`
	SupervisorCompletedAt *string `json:"supervisor_completed_at,omitempty"`
	ManagerCompletedAt    *string `json:"manager_completed_at,omitempty"`

	Criteria         *CriteriaRatings `json:"criteria,omitempty"`
	Strengths        string           `json:"strengths,omitempty"`
	Weaknesses       string           `json:"weaknesses,omitempty"`
	TrainingRequired string           `json:"training_required,omitempty"`
	Comments         string           `json:"comments,omitempty"`
	ManagerComments  string           `json:"manager_comments,omitempty"`

	CompletionPercent int `json:"completion_percent"`
}
