package record

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError is a caller-fixable problem with a submitted record.
type ValidationError struct {
	Field   string // canonical field name or payload key
	Value   string // offending raw value, if any
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func requiredFieldError(f Field) error {
	return &ValidationError{Field: string(f), Message: "required field is empty"}
}
