package appointments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no record matches the requested id
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidFormat is returned when a date or time string does not parse
	ErrInvalidFormat = errors.New("invalid date or time format")

	// ErrPastDateTime is returned when the requested slot is not in the future
	ErrPastDateTime = errors.New("appointment date/time is in the past")
)

// MissingFieldsError reports which required fields were empty on a submission.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// AsMissingFields unwraps err into a MissingFieldsError if it is one.
func AsMissingFields(err error) (*MissingFieldsError, bool) {
	var mfe *MissingFieldsError
	if errors.As(err, &mfe) {
		return mfe, true
	}
	return nil, false
}
