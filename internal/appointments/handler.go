package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type statusResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	AppointmentID int64  `json:"appointment_id,omitempty"`
}

// List handles GET /appointments requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	h.writeJSON(w, http.StatusOK, appts)
}

// Get handles GET /api/appointment/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Appointment not found"})
			return
		}
		h.logger.Error("failed to load appointment", "error", err, "id", id)
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, appt)
}

// Book handles POST /book requests
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode book request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Book(r.Context(), req)
	if err != nil {
		h.writeOperationError(w, err, bookMessages)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		Status:        "success",
		Message:       "Appointment booked successfully!",
		AppointmentID: appt.ID,
	})
}

// Cancel handles GET /cancel/{id} requests. GET is kept for parity with the
// appointment list UI, which cancels through a plain link.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.writeOperationError(w, err, cancelMessages)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "Appointment cancelled successfully!",
	})
}

// Reschedule handles POST /reschedule/{id} requests
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode reschedule request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.service.Reschedule(r.Context(), id, req); err != nil {
		h.writeOperationError(w, err, rescheduleMessages)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "Appointment rescheduled successfully!",
	})
}

// opMessages maps the validation error taxonomy to user-facing messages for
// one operation.
type opMessages struct {
	past     string
	notFound string
	missing  string
}

var (
	bookMessages = opMessages{
		past:     "Cannot book an appointment in the past.",
		notFound: "Appointment ID not found.",
		missing:  "All fields are required.",
	}
	cancelMessages = opMessages{
		notFound: "Appointment ID not found.",
	}
	rescheduleMessages = opMessages{
		past:     "Cannot reschedule to a past date/time.",
		notFound: "Appointment ID not found.",
		missing:  "All fields are required for rescheduling.",
	}
)

func (h *Handler) writeOperationError(w http.ResponseWriter, err error, msgs opMessages) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: msgs.notFound})
	case errors.Is(err, ErrPastDateTime):
		h.writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: msgs.past})
	case errors.Is(err, ErrInvalidFormat):
		h.writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid date or time format."})
	default:
		if _, ok := AsMissingFields(err); ok {
			h.writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: msgs.missing})
			return
		}
		h.logger.Error("appointment operation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
