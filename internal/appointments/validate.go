package appointments

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Wire formats for appointment dates and times. Records keep date and time as
// text in exactly these layouts so that lexicographic order equals
// chronological order.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseSchedule combines a date and a time-of-day string into a single instant
// in the server's local time zone. It fails with ErrInvalidFormat when either
// part does not match its layout.
func ParseSchedule(date, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidFormat, date, timeOfDay)
	}
	return t, nil
}

// ValidateFuture checks that the combined date/time is strictly after now.
// The caller supplies now explicitly; it must be read once per operation and
// threaded through so the check stays deterministic under test.
func ValidateFuture(date, timeOfDay string, now time.Time) error {
	t, err := ParseSchedule(date, timeOfDay)
	if err != nil {
		return err
	}
	if !t.After(now) {
		return ErrPastDateTime
	}
	return nil
}

// RequireFields verifies that every required name maps to a non-empty value.
// All missing names are reported together, sorted for stable output.
func RequireFields(fields map[string]string, required []string) error {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &MissingFieldsError{Fields: missing}
}
