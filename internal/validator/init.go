package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func GetValidator() *validator.Validate {
	return validate
}

// Struct validates v and flattens field errors into one readable message.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s failed on %q", fieldErr.Namespace(), fieldErr.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(messages, ", "))
}

var ErrInvalidRequest = errors.New("invalid request")
