package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Iqra-Rahman/Medi-Bot/internal/appointments"
	"github.com/Iqra-Rahman/Medi-Bot/internal/observability/metrics"
	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

var bridgeTracer = otel.Tracer("medibot.internal.conversation.bridge")

// ApologyReply is the single generic message chat degrades to when the
// interpreter or anything behind it faults. Detail is deliberately discarded
// at this boundary so internal errors never leak into chat output.
const ApologyReply = "I apologize, but an error occurred."

const defaultInterpretTimeout = 25 * time.Second

// Bridge translates resolved intents into lifecycle manager calls and renders
// the results as short natural-language replies. Chat never returns an error.
type Bridge struct {
	interpreter Interpreter
	service     *appointments.Service
	transcript  *TranscriptStore
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
	timeout     time.Duration
}

// NewBridge creates a conversational bridge. The interpreter may be nil when
// no LLM provider is configured; chat then degrades to the apology reply.
// transcript and m may be nil.
func NewBridge(interpreter Interpreter, service *appointments.Service, transcript *TranscriptStore, m *metrics.ChatMetrics, timeout time.Duration, logger *logging.Logger) *Bridge {
	if service == nil {
		panic("conversation: appointments service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultInterpretTimeout
	}
	return &Bridge{
		interpreter: interpreter,
		service:     service,
		transcript:  transcript,
		logger:      logger,
		metrics:     m,
		timeout:     timeout,
	}
}

// Chat handles one utterance end to end and always produces a reply string.
func (b *Bridge) Chat(ctx context.Context, sessionID, utterance string) string {
	ctx, span := bridgeTracer.Start(ctx, "conversation.chat")
	defer span.End()

	_ = b.transcript.Append(ctx, sessionID, TranscriptMessage{Role: ChatRoleUser, Body: utterance})

	reply, outcome := b.respond(ctx, utterance)
	span.SetAttributes(attribute.String("medibot.chat.outcome", outcome))
	b.metrics.ObserveChat(outcome)

	_ = b.transcript.Append(ctx, sessionID, TranscriptMessage{Role: ChatRoleAssistant, Body: reply})
	return reply
}

func (b *Bridge) respond(ctx context.Context, utterance string) (reply, outcome string) {
	if b.interpreter == nil {
		return ApologyReply, "unavailable"
	}

	// The listing is interpretation context only; a failed read just means
	// the model sees an empty desk.
	listing, err := b.service.List(ctx)
	if err != nil {
		b.logger.Warn("chat: listing unavailable for interpretation", "error", err)
		listing = nil
	}

	interpretCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	intent, err := b.interpreter.Interpret(interpretCtx, utterance, listing)
	b.metrics.ObserveInterpretLatency(time.Since(start).Seconds())
	if err != nil {
		b.logger.Error("chat: interpretation failed", "error", err)
		return ApologyReply, "interpret_error"
	}

	switch intent.Action {
	case ActionBook:
		return b.handleBook(ctx, intent)
	case ActionCancel:
		return b.handleCancel(ctx, intent)
	case ActionReschedule:
		return b.handleReschedule(ctx, intent)
	case ActionQuery:
		return b.handleQuery(ctx, intent)
	case ActionClarify:
		if intent.Reply != "" {
			return intent.Reply, "clarify"
		}
		return "Could you tell me a bit more about what you need?", "clarify"
	default: // chitchat
		if intent.Reply != "" {
			return intent.Reply, "chitchat"
		}
		return "Hello! I can help you book, cancel or reschedule an appointment.", "chitchat"
	}
}

func (b *Bridge) handleBook(ctx context.Context, intent *Intent) (string, string) {
	appt, err := b.service.Book(ctx, appointments.BookRequest{
		PatientName:     intent.PatientName,
		PatientAge:      intent.PatientAge,
		PatientGender:   intent.PatientGender,
		PatientContact:  intent.PatientContact,
		Department:      intent.Department,
		AppointmentDate: intent.Date,
		AppointmentTime: intent.Time,
	})
	if err != nil {
		return b.renderOperationError("book", err)
	}
	return fmt.Sprintf("Your appointment is booked! The appointment ID is %d: %s on %s at %s.",
		appt.ID, appt.Department, appt.AppointmentDate, appt.AppointmentTime), "book"
}

func (b *Bridge) handleCancel(ctx context.Context, intent *Intent) (string, string) {
	if intent.AppointmentID <= 0 {
		return "Which appointment should I cancel? Please give me the appointment ID.", "clarify"
	}
	if err := b.service.Cancel(ctx, intent.AppointmentID); err != nil {
		return b.renderOperationError("cancel", err)
	}
	return fmt.Sprintf("Appointment %d has been cancelled.", intent.AppointmentID), "cancel"
}

func (b *Bridge) handleReschedule(ctx context.Context, intent *Intent) (string, string) {
	if intent.AppointmentID <= 0 {
		return "Which appointment should I reschedule? Please give me the appointment ID.", "clarify"
	}
	appt, err := b.service.Reschedule(ctx, intent.AppointmentID, appointments.RescheduleRequest{
		NewDate:        intent.Date,
		NewTime:        intent.Time,
		PatientName:    intent.PatientName,
		PatientAge:     intent.PatientAge,
		PatientGender:  intent.PatientGender,
		PatientContact: intent.PatientContact,
	})
	if err != nil {
		return b.renderOperationError("reschedule", err)
	}
	return fmt.Sprintf("Appointment %d is rescheduled to %s at %s.",
		appt.ID, appt.AppointmentDate, appt.AppointmentTime), "reschedule"
}

func (b *Bridge) handleQuery(ctx context.Context, intent *Intent) (string, string) {
	if intent.AppointmentID > 0 {
		appt, err := b.service.Get(ctx, intent.AppointmentID)
		if err != nil {
			return b.renderOperationError("query", err)
		}
		return fmt.Sprintf("Appointment %d: %s with %s on %s at %s, status %s.",
			appt.ID, appt.PatientName, appt.Department,
			appt.AppointmentDate, appt.AppointmentTime, appt.Status), "query"
	}

	listing, err := b.service.List(ctx)
	if err != nil {
		return b.renderOperationError("query", err)
	}
	if len(listing) == 0 {
		return "There are no appointments on file.", "query"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "There are %d appointments on file:\n", len(listing))
	for _, appt := range listing {
		fmt.Fprintf(&builder, "- %d: %s, %s, %s at %s (%s)\n",
			appt.ID, appt.PatientName, appt.Department,
			appt.AppointmentDate, appt.AppointmentTime, appt.Status)
	}
	return strings.TrimRight(builder.String(), "\n"), "query"
}

// renderOperationError maps the lifecycle error taxonomy onto short
// user-facing replies. Anything outside the taxonomy collapses to the
// generic apology.
func (b *Bridge) renderOperationError(operation string, err error) (string, string) {
	switch {
	case errors.Is(err, appointments.ErrNotFound):
		return "I couldn't find that appointment. Could you double-check the appointment ID?", operation + "_not_found"
	case errors.Is(err, appointments.ErrPastDateTime):
		return "I'm sorry, that date and time is in the past. Could you pick a future slot?", operation + "_rejected"
	case errors.Is(err, appointments.ErrInvalidFormat):
		return "I couldn't make out the date and time. Please give the date as YYYY-MM-DD and the time as HH:MM.", operation + "_rejected"
	}
	if mfe, ok := appointments.AsMissingFields(err); ok {
		names := make([]string, 0, len(mfe.Fields))
		for _, f := range mfe.Fields {
			names = append(names, strings.ReplaceAll(f, "_", " "))
		}
		return fmt.Sprintf("I still need a few details before I can do that: %s.",
			strings.Join(names, ", ")), operation + "_rejected"
	}

	b.logger.Error("chat: operation failed", "operation", operation, "error", err)
	return ApologyReply, operation + "_error"
}
