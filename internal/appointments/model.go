package appointments

import "strconv"

// Status is the lifecycle state of an appointment record.
type Status string

const (
	StatusScheduled   Status = "Scheduled"
	StatusCancelled   Status = "Cancelled"
	StatusRescheduled Status = "Rescheduled"
)

// Appointment represents one appointment record.
type Appointment struct {
	ID              int64  `json:"id"`
	PatientName     string `json:"patient_name"`
	PatientAge      int    `json:"patient_age"`
	PatientGender   string `json:"patient_gender"`
	PatientContact  string `json:"patient_contact"`
	Department      string `json:"department"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Status          Status `json:"status"`
}

// BookRequest represents the request body for booking an appointment.
type BookRequest struct {
	PatientName     string `json:"patient_name"`
	PatientAge      int    `json:"patient_age"`
	PatientGender   string `json:"patient_gender"`
	PatientContact  string `json:"patient_contact"`
	Department      string `json:"department"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

var bookRequired = []string{
	"patient_name",
	"patient_age",
	"patient_gender",
	"patient_contact",
	"department",
	"appointment_date",
	"appointment_time",
}

func (r *BookRequest) fields() map[string]string {
	return map[string]string{
		"patient_name":     r.PatientName,
		"patient_age":      positiveIntField(r.PatientAge),
		"patient_gender":   r.PatientGender,
		"patient_contact":  r.PatientContact,
		"department":       r.Department,
		"appointment_date": r.AppointmentDate,
		"appointment_time": r.AppointmentTime,
	}
}

// RescheduleRequest represents the request body for rescheduling.
// The department is immutable across reschedules and is not accepted here.
type RescheduleRequest struct {
	NewDate        string `json:"new_date"`
	NewTime        string `json:"new_time"`
	PatientName    string `json:"patient_name"`
	PatientAge     int    `json:"patient_age"`
	PatientGender  string `json:"patient_gender"`
	PatientContact string `json:"patient_contact"`
}

var rescheduleRequired = []string{
	"new_date",
	"new_time",
	"patient_name",
	"patient_age",
	"patient_gender",
	"patient_contact",
}

func (r *RescheduleRequest) fields() map[string]string {
	return map[string]string{
		"new_date":        r.NewDate,
		"new_time":        r.NewTime,
		"patient_name":    r.PatientName,
		"patient_age":     positiveIntField(r.PatientAge),
		"patient_gender":  r.PatientGender,
		"patient_contact": r.PatientContact,
	}
}

// positiveIntField renders a positive integer for required-field checks.
// Zero and negative values count as absent.
func positiveIntField(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}
