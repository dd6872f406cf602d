package contact

import "errors"

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("contact not found")

// ErrEmptyBatch is returned by BulkCreate when there is nothing to insert.
var ErrEmptyBatch = errors.New("no contacts to insert")

// ValidationError reports a missing required field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
