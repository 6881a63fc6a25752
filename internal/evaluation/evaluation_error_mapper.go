package evaluation

import (
	"errors"
	"strings"

	evaluationerrors "go-appraise/internal/evaluation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return evaluationerrors.ErrEvaluationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_instance_period" {
			return evaluationerrors.ErrInstanceExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_instance_period") {
		return evaluationerrors.ErrInstanceExists
	}

	return err
}
