package review

import (
	"errors"
	"strings"

	reviewerrors "go-appraise/internal/review/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reviewerrors.ErrReviewNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_task_employee_description" {
			return reviewerrors.ErrTaskExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_task_employee_description") {
		return reviewerrors.ErrTaskExists
	}

	return err
}
