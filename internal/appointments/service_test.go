package appointments

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fixedNow keeps validation deterministic: 2025-06-15 12:00 local.
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

func newTestService() (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil)
	svc.clock = func() time.Time { return fixedNow }
	return svc, repo
}

func validBooking() BookRequest {
	return BookRequest{
		PatientName:     "A Patient",
		PatientAge:      30,
		PatientGender:   "Female",
		PatientContact:  "555-0100",
		Department:      "Neurology",
		AppointmentDate: "2099-01-01",
		AppointmentTime: "09:00",
	}
}

func TestBookHappyPath(t *testing.T) {
	svc, _ := newTestService()

	appt, err := svc.Book(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appt.ID != 1 {
		t.Fatalf("id = %d, want 1", appt.ID)
	}
	if appt.Status != StatusScheduled {
		t.Fatalf("status = %s, want %s", appt.Status, StatusScheduled)
	}
}

func TestBookRejectsPastSlot(t *testing.T) {
	svc, _ := newTestService()

	req := validBooking()
	req.AppointmentDate = "2020-01-01"
	if _, err := svc.Book(context.Background(), req); !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("expected ErrPastDateTime, got %v", err)
	}
}

func TestBookChecksSlotBeforeFields(t *testing.T) {
	svc, _ := newTestService()

	// Past slot AND missing fields: the slot check wins.
	req := BookRequest{AppointmentDate: "2020-01-01", AppointmentTime: "10:00"}
	if _, err := svc.Book(context.Background(), req); !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("expected ErrPastDateTime, got %v", err)
	}
}

func TestBookRejectsMissingFields(t *testing.T) {
	svc, _ := newTestService()

	req := validBooking()
	req.PatientName = ""
	req.PatientAge = 0
	_, err := svc.Book(context.Background(), req)
	mfe, ok := AsMissingFields(err)
	if !ok {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(mfe.Fields) != 2 || mfe.Fields[0] != "patient_age" || mfe.Fields[1] != "patient_name" {
		t.Fatalf("unexpected missing fields: %v", mfe.Fields)
	}
}

func TestBookFailureWritesNothing(t *testing.T) {
	svc, repo := newTestService()

	req := validBooking()
	req.AppointmentDate = "2020-01-01"
	if _, err := svc.Book(context.Background(), req); err == nil {
		t.Fatalf("expected error")
	}

	listing, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listing) != 0 {
		t.Fatalf("rejected booking left %d records behind", len(listing))
	}
}

func TestBookNeverReusesIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := svc.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("id %d was reused", first.ID)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Cancelling an already cancelled record succeeds again.
	if err := svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("re-cancel: %v", err)
	}

	got, err := svc.Get(ctx, appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %s, want %s", got.Status, StatusCancelled)
	}
}

func TestCancelUnknownID(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Cancel(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReschedulePreservesIDAndDepartment(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	updated, err := svc.Reschedule(ctx, appt.ID, RescheduleRequest{
		NewDate:        "2099-03-03",
		NewTime:        "15:45",
		PatientName:    "A Patient",
		PatientAge:     31,
		PatientGender:  "Female",
		PatientContact: "555-0200",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	if updated.ID != appt.ID {
		t.Fatalf("id changed from %d to %d", appt.ID, updated.ID)
	}
	if updated.Department != "Neurology" {
		t.Fatalf("department changed to %q", updated.Department)
	}
	if updated.AppointmentDate != "2099-03-03" || updated.AppointmentTime != "15:45" {
		t.Fatalf("slot not replaced: %s %s", updated.AppointmentDate, updated.AppointmentTime)
	}
	if updated.Status != StatusRescheduled {
		t.Fatalf("status = %s, want %s", updated.Status, StatusRescheduled)
	}
	if updated.PatientAge != 31 || updated.PatientContact != "555-0200" {
		t.Fatalf("patient fields not replaced: %+v", updated)
	}
}

func TestRescheduleAfterCancel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// There is no un-cancel, but a cancelled record can still be rescheduled.
	updated, err := svc.Reschedule(ctx, appt.ID, RescheduleRequest{
		NewDate:        "2099-04-04",
		NewTime:        "11:00",
		PatientName:    "A Patient",
		PatientAge:     30,
		PatientGender:  "Female",
		PatientContact: "555-0100",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if updated.Status != StatusRescheduled {
		t.Fatalf("status = %s, want %s", updated.Status, StatusRescheduled)
	}
}

func TestRescheduleRejectsPastSlot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	_, err = svc.Reschedule(ctx, appt.ID, RescheduleRequest{
		NewDate:        "2020-01-01",
		NewTime:        "10:00",
		PatientName:    "A Patient",
		PatientAge:     30,
		PatientGender:  "Female",
		PatientContact: "555-0100",
	})
	if !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("expected ErrPastDateTime, got %v", err)
	}

	// The record is untouched on rejection.
	got, err := svc.Get(ctx, appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AppointmentDate != "2099-01-01" || got.Status != StatusScheduled {
		t.Fatalf("rejected reschedule modified the record: %+v", got)
	}
}

func TestRescheduleUnknownID(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Reschedule(context.Background(), 999, RescheduleRequest{
		NewDate:        "2099-03-03",
		NewTime:        "15:45",
		PatientName:    "A Patient",
		PatientAge:     30,
		PatientGender:  "Female",
		PatientContact: "555-0100",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByDateThenTime(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	slots := []struct{ date, tod string }{
		{"2099-02-01", "14:00"},
		{"2099-01-15", "09:00"},
		{"2099-02-01", "08:30"},
	}
	for _, s := range slots {
		req := validBooking()
		req.AppointmentDate = s.date
		req.AppointmentTime = s.tod
		if _, err := svc.Book(ctx, req); err != nil {
			t.Fatalf("book: %v", err)
		}
	}

	listing, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantIDs := []int64{2, 3, 1}
	for i, appt := range listing {
		if appt.ID != wantIDs[i] {
			t.Fatalf("position %d: got id %d, want %d", i, appt.ID, wantIDs[i])
		}
	}
}
