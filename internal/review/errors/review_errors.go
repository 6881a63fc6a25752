package reviewerrors

import (
	"net/http"

	"go-appraise/internal/shared/apperror"
)

var (
	ErrInvalidReviewID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid review id",
		http.StatusBadRequest,
	)
	ErrInvalidInstanceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid instance id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrReviewNotFound = apperror.New(
		apperror.CodeNotFound,
		"review not found",
		http.StatusNotFound,
	)
	ErrInstanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"evaluation instance not found",
		http.StatusNotFound,
	)
	ErrNoApprover = apperror.New(
		apperror.CodeInvalidState,
		"set your approver first",
		http.StatusBadRequest,
	)
	ErrAlreadySubmitted = apperror.New(
		apperror.CodeInvalidState,
		"self evaluation already submitted",
		http.StatusBadRequest,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"you are not the reviewer for this evaluation",
		http.StatusForbidden,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidState,
		"review is not in a state that accepts this action",
		http.StatusBadRequest,
	)
	ErrCommentsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comments are required to disapprove",
		http.StatusBadRequest,
	)
	ErrValidationFailed = apperror.New(
		apperror.CodeInvalidInput,
		"review validation failed",
		http.StatusBadRequest,
	)
	ErrTaskExists = apperror.New(
		apperror.CodeConflict,
		"task already exists for this employee",
		http.StatusConflict,
	)
	ErrNotInstanceOwner = apperror.New(
		apperror.CodeForbidden,
		"evaluation instance belongs to another employee",
		http.StatusForbidden,
	)
)
