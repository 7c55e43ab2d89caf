package appointments

import (
	"errors"
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	got, err := ParseSchedule("2030-04-12", "09:30")
	if err != nil {
		t.Fatalf("ParseSchedule returned error: %v", err)
	}
	want := time.Date(2030, 4, 12, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("ParseSchedule = %s, want %s", got, want)
	}
}

func TestParseScheduleRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		date string
		tod  string
	}{
		{"bad date", "12-04-2030", "09:30"},
		{"bad time", "2030-04-12", "9.30am"},
		{"empty", "", ""},
		{"seconds in time", "2030-04-12", "09:30:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSchedule(tc.date, tc.tod); !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

func TestValidateFuture(t *testing.T) {
	now := time.Date(2030, 4, 12, 9, 30, 0, 0, time.Local)

	if err := ValidateFuture("2030-04-12", "09:31", now); err != nil {
		t.Fatalf("one minute ahead should be valid, got %v", err)
	}
	if err := ValidateFuture("2030-04-11", "23:59", now); !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("expected ErrPastDateTime for past slot, got %v", err)
	}
	// The boundary is strict: a slot equal to now is already in the past.
	if err := ValidateFuture("2030-04-12", "09:30", now); !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("expected ErrPastDateTime for now-equal slot, got %v", err)
	}
}

func TestRequireFieldsReportsAllMissingSorted(t *testing.T) {
	err := RequireFields(map[string]string{
		"patient_name": "Jane",
		"department":   "  ",
	}, []string{"patient_name", "department", "appointment_date"})

	mfe, ok := AsMissingFields(err)
	if !ok {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(mfe.Fields) != 2 || mfe.Fields[0] != "appointment_date" || mfe.Fields[1] != "department" {
		t.Fatalf("unexpected missing fields: %v", mfe.Fields)
	}
}

func TestRequireFieldsPassesWhenComplete(t *testing.T) {
	err := RequireFields(map[string]string{"a": "1", "b": "2"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
