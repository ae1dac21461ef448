package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
	ErrNoImages        = errors.New("at least one image is required")
)

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries every violation found for an entity so forms can
// report them all at once. It is a user-facing failure, never a server fault.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := e.Fields[0].Message
	for _, f := range e.Fields[1:] {
		msg += ", " + f.Message
	}
	return msg
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
