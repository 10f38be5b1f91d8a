package codec

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"fabtopo/internal/domain"
)

var validate = validator.New()

// ValidateSnapshot checks the structural requirements of decoded records.
// Identifier syntax is left to the pipeline, which fails on first use.
func ValidateSnapshot(snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}
	if err := validate.Struct(snap); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Report the first failure; the rest are usually the same mistake repeated
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
