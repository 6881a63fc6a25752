package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts a binding validation failure into an
// AppError carrying one entry per failed field, so callers see every
// problem at once instead of the first one only.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(errs))
		for _, e := range errs {
			name := formatFieldName(e.Field())
			switch e.Tag() {
			case "required":
				fields[e.Field()] = name + " is required"
			default:
				fields[e.Field()] = name + " is invalid"
			}
		}
		return ErrInvalidInput.WithDetails(fields)
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
