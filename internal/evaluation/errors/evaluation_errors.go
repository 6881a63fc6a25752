package evaluationerrors

import (
	"net/http"

	"go-appraise/internal/shared/apperror"
)

var (
	ErrInvalidEvaluationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid evaluation id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidCadence = apperror.New(
		apperror.CodeInvalidInput,
		"cadence must be one of daily, monthly, quarterly, yearly",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStartYear = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must fall inside the declared fiscal start_year",
		http.StatusBadRequest,
	)
	ErrEvaluationNotFound = apperror.New(
		apperror.CodeNotFound,
		"evaluation not found",
		http.StatusNotFound,
	)
	ErrInstanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"evaluation instance not found",
		http.StatusNotFound,
	)
	ErrScheduleFrozen = apperror.New(
		apperror.CodeInvalidState,
		"cadence and start date cannot change after instances exist",
		http.StatusConflict,
	)
	ErrInstanceExists = apperror.New(
		apperror.CodeConflict,
		"instance already materialized for this period",
		http.StatusConflict,
	)
)
