package appointments

import (
	"context"
	"sort"
	"sync"
)

// InsertParams carries the fields persisted when a booking is committed.
type InsertParams struct {
	PatientName     string
	PatientAge      int
	PatientGender   string
	PatientContact  string
	Department      string
	AppointmentDate string
	AppointmentTime string
}

// SchedulePatch is the partial update applied by a reschedule: new slot,
// new status, and replacement patient fields. Department is never patched.
type SchedulePatch struct {
	AppointmentDate string
	AppointmentTime string
	Status          Status
	PatientName     string
	PatientAge      int
	PatientGender   string
	PatientContact  string
}

// Repository defines the interface for appointment storage.
type Repository interface {
	// Insert persists a new record with status Scheduled and returns it with
	// its newly assigned id. Ids are monotonic and never reused.
	Insert(ctx context.Context, params InsertParams) (*Appointment, error)
	// Get is a point lookup; ErrNotFound when no record matches.
	Get(ctx context.Context, id int64) (*Appointment, error)
	// ListAll returns every record ordered by (date, time) ascending.
	ListAll(ctx context.Context) ([]*Appointment, error)
	// UpdateStatus patches the status of the matching record; ErrNotFound
	// when no record matches.
	UpdateStatus(ctx context.Context, id int64, status Status) error
	// UpdateSchedule applies a reschedule patch; ErrNotFound when no record
	// matches.
	UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) error
}

// InMemoryRepository stores appointments in process memory. The write lock
// makes each check-then-write sequence atomic per record, which is the
// single-writer guarantee the lifecycle manager relies on.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[int64]*Appointment)}
}

// Insert creates a new record in memory.
func (r *InMemoryRepository) Insert(ctx context.Context, params InsertParams) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	appt := &Appointment{
		ID:              r.nextID,
		PatientName:     params.PatientName,
		PatientAge:      params.PatientAge,
		PatientGender:   params.PatientGender,
		PatientContact:  params.PatientContact,
		Department:      params.Department,
		AppointmentDate: params.AppointmentDate,
		AppointmentTime: params.AppointmentTime,
		Status:          StatusScheduled,
	}
	r.rows[appt.ID] = appt

	out := *appt
	return &out, nil
}

// Get retrieves a record by id.
func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *appt
	return &out, nil
}

// ListAll returns all records sorted by (date, time) ascending. Ties break on
// id so the ordering is stable.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.rows))
	for _, appt := range r.rows {
		copied := *appt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		if out[i].AppointmentTime != out[j].AppointmentTime {
			return out[i].AppointmentTime < out[j].AppointmentTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateStatus patches the status of a record.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	appt.Status = status
	return nil
}

// UpdateSchedule applies a reschedule patch to a record.
func (r *InMemoryRepository) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	appt.AppointmentDate = patch.AppointmentDate
	appt.AppointmentTime = patch.AppointmentTime
	appt.Status = patch.Status
	appt.PatientName = patch.PatientName
	appt.PatientAge = patch.PatientAge
	appt.PatientGender = patch.PatientGender
	appt.PatientContact = patch.PatientContact
	return nil
}
