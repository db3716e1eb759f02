package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownDatabase marks requests naming a database that was never configured.
var ErrUnknownDatabase = errors.New("unknown database")

// ValidationError describes invalid caller input. No state is mutated when
// one is returned.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
