package appointments

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Iqra-Rahman/Medi-Bot/internal/observability/metrics"
	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

var appointmentsTracer = otel.Tracer("medibot.internal.appointments")

// Service owns the appointment status state machine. Every mutating operation
// validates its preconditions fully before issuing any write; the clock is
// read once per operation and threaded through validation.
type Service struct {
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.AppointmentMetrics
	clock   func() time.Time
}

// NewService constructs an appointments service.
func NewService(repo Repository, logger *logging.Logger, m *metrics.AppointmentMetrics) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: m,
		clock:   time.Now,
	}
}

// Book validates and inserts a new Scheduled record, returning it with its
// fresh id. Slot validity is checked before field completeness; both checks
// precede the write.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()

	now := s.clock()
	if err := ValidateFuture(req.AppointmentDate, req.AppointmentTime, now); err != nil {
		s.metrics.ObserveOperation("book", "rejected")
		return nil, err
	}
	if err := RequireFields(req.fields(), bookRequired); err != nil {
		s.metrics.ObserveOperation("book", "rejected")
		return nil, err
	}

	appt, err := s.repo.Insert(ctx, InsertParams{
		PatientName:     req.PatientName,
		PatientAge:      req.PatientAge,
		PatientGender:   req.PatientGender,
		PatientContact:  req.PatientContact,
		Department:      req.Department,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveOperation("book", "error")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("medibot.appointment_id", appt.ID))
	s.metrics.ObserveOperation("book", "ok")
	s.logger.Info("appointment booked",
		"id", appt.ID,
		"department", appt.Department,
		"date", appt.AppointmentDate,
		"time", appt.AppointmentTime,
	)
	return appt, nil
}

// Cancel flips the record to Cancelled. Cancelling an already cancelled
// record succeeds again: the operation is an idempotent status patch, there
// is no un-cancel.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.Int64("medibot.appointment_id", id))

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		if err != ErrNotFound {
			span.RecordError(err)
		}
		s.metrics.ObserveOperation("cancel", "rejected")
		return err
	}

	s.metrics.ObserveOperation("cancel", "ok")
	s.logger.Info("appointment cancelled", "id", id)
	return nil
}

// Reschedule replaces the slot and patient fields of an existing record and
// flips its status to Rescheduled. The id and department are preserved.
func (s *Service) Reschedule(ctx context.Context, id int64, req RescheduleRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.reschedule")
	defer span.End()
	span.SetAttributes(attribute.Int64("medibot.appointment_id", id))

	now := s.clock()
	if err := ValidateFuture(req.NewDate, req.NewTime, now); err != nil {
		s.metrics.ObserveOperation("reschedule", "rejected")
		return nil, err
	}
	if err := RequireFields(req.fields(), rescheduleRequired); err != nil {
		s.metrics.ObserveOperation("reschedule", "rejected")
		return nil, err
	}

	patch := SchedulePatch{
		AppointmentDate: req.NewDate,
		AppointmentTime: req.NewTime,
		Status:          StatusRescheduled,
		PatientName:     req.PatientName,
		PatientAge:      req.PatientAge,
		PatientGender:   req.PatientGender,
		PatientContact:  req.PatientContact,
	}
	if err := s.repo.UpdateSchedule(ctx, id, patch); err != nil {
		if err != ErrNotFound {
			span.RecordError(err)
		}
		s.metrics.ObserveOperation("reschedule", "rejected")
		return nil, err
	}

	s.metrics.ObserveOperation("reschedule", "ok")
	s.logger.Info("appointment rescheduled",
		"id", id,
		"date", req.NewDate,
		"time", req.NewTime,
	)
	return s.repo.Get(ctx, id)
}

// Get is a point lookup.
func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

// List returns every record ordered by (date, time) ascending.
func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.repo.ListAll(ctx)
}
