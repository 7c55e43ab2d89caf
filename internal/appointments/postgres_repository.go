package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Insert inserts a new Scheduled row and returns it with the assigned id.
func (r *PostgresRepository) Insert(ctx context.Context, params InsertParams) (*Appointment, error) {
	query := `
		INSERT INTO appointments
			(patient_name, patient_age, patient_gender, patient_contact, department, appointment_date, appointment_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	if err := r.pool.QueryRow(ctx, query,
		params.PatientName,
		params.PatientAge,
		params.PatientGender,
		params.PatientContact,
		params.Department,
		params.AppointmentDate,
		params.AppointmentTime,
		StatusScheduled,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:              id,
		PatientName:     params.PatientName,
		PatientAge:      params.PatientAge,
		PatientGender:   params.PatientGender,
		PatientContact:  params.PatientContact,
		Department:      params.Department,
		AppointmentDate: params.AppointmentDate,
		AppointmentTime: params.AppointmentTime,
		Status:          StatusScheduled,
	}, nil
}

// Get fetches one appointment by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Appointment, error) {
	query := `
		SELECT id, patient_name, patient_age, patient_gender, patient_contact, department, appointment_date, appointment_time, status
		FROM appointments
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// ListAll returns every appointment ordered by (date, time) ascending.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	query := `
		SELECT id, patient_name, patient_age, patient_gender, patient_contact, department, appointment_date, appointment_time, status
		FROM appointments
		ORDER BY appointment_date, appointment_time, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: list scan failed: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows failed: %w", err)
	}
	return out, nil
}

// UpdateStatus patches the status of the matching row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("appointments: update status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSchedule replaces slot, status and patient fields on the matching row.
func (r *PostgresRepository) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, status = $3,
			patient_name = $4, patient_age = $5, patient_gender = $6, patient_contact = $7
		WHERE id = $8
	`
	tag, err := r.pool.Exec(ctx, query,
		patch.AppointmentDate,
		patch.AppointmentTime,
		patch.Status,
		patch.PatientName,
		patch.PatientAge,
		patch.PatientGender,
		patch.PatientContact,
		id,
	)
	if err != nil {
		return fmt.Errorf("appointments: update schedule failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	if err := row.Scan(
		&appt.ID,
		&appt.PatientName,
		&appt.PatientAge,
		&appt.PatientGender,
		&appt.PatientContact,
		&appt.Department,
		&appt.AppointmentDate,
		&appt.AppointmentTime,
		&appt.Status,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}
