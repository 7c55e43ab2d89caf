package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Iqra-Rahman/Medi-Bot/internal/appointments"
	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

var interpreterTracer = otel.Tracer("medibot.internal.conversation.interpreter")

// Action is the operation an utterance resolves to.
type Action string

const (
	ActionBook       Action = "book"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
	ActionQuery      Action = "query"
	ActionChitChat   Action = "chitchat"
	ActionClarify    Action = "clarify"
)

// Intent is the structured result of interpreting one utterance. Fields are
// filled only as far as the utterance supports them; the bridge validates the
// rest through the lifecycle manager.
type Intent struct {
	Action         Action `json:"action"`
	AppointmentID  int64  `json:"appointment_id,omitempty"`
	PatientName    string `json:"patient_name,omitempty"`
	PatientAge     int    `json:"patient_age,omitempty"`
	PatientGender  string `json:"patient_gender,omitempty"`
	PatientContact string `json:"patient_contact,omitempty"`
	Department     string `json:"department,omitempty"`
	Date           string `json:"date,omitempty"`
	Time           string `json:"time,omitempty"`
	// Reply carries the model's direct answer for chitchat and clarify turns.
	Reply string `json:"reply,omitempty"`
}

// Interpreter turns a free-text utterance into an Intent. The current
// appointment listing is passed as context so the model can resolve
// references like "my cardiology appointment".
type Interpreter interface {
	Interpret(ctx context.Context, utterance string, listing []*appointments.Appointment) (*Intent, error)
}

const interpreterSystemPrompt = `You are the intake interpreter for a clinic appointment desk.
Read the visitor's message and respond with a single JSON object, nothing else:

{"action": "book" | "cancel" | "reschedule" | "query" | "chitchat" | "clarify",
 "appointment_id": number,        // cancel/reschedule/query of one record
 "patient_name": string, "patient_age": number, "patient_gender": string,
 "patient_contact": string, "department": string,
 "date": "YYYY-MM-DD", "time": "HH:MM",   // 24-hour
 "reply": string}                 // chitchat/clarify: what to say to the visitor

Rules:
- Omit fields the message does not state; never invent patient details.
- Use "clarify" with a short question in "reply" when required details are missing.
- Use "chitchat" with a friendly "reply" for greetings and small talk.
- Dates are resolved against today's date given below.`

// LLMInterpreter implements Interpreter on top of an LLMClient.
type LLMInterpreter struct {
	client LLMClient
	model  string
	logger *logging.Logger
	clock  func() time.Time
}

// NewLLMInterpreter creates an interpreter backed by the given LLM client.
func NewLLMInterpreter(client LLMClient, model string, logger *logging.Logger) *LLMInterpreter {
	if client == nil {
		panic("conversation: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMInterpreter{
		client: client,
		model:  model,
		logger: logger,
		clock:  time.Now,
	}
}

// Interpret asks the model for a structured intent and decodes it.
func (i *LLMInterpreter) Interpret(ctx context.Context, utterance string, listing []*appointments.Appointment) (*Intent, error) {
	ctx, span := interpreterTracer.Start(ctx, "conversation.interpret")
	defer span.End()

	resp, err := i.client.Complete(ctx, LLMRequest{
		Model: i.model,
		System: []string{
			interpreterSystemPrompt,
			i.contextBlock(listing),
		},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: utterance},
		},
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: interpret completion failed: %w", err)
	}

	intent, err := decodeIntent(resp.Text)
	if err != nil {
		span.RecordError(err)
		i.logger.Warn("interpreter returned undecodable output", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.String("medibot.intent.action", string(intent.Action)))
	return intent, nil
}

// contextBlock summarizes today's date and the current listing for the model.
func (i *LLMInterpreter) contextBlock(listing []*appointments.Appointment) string {
	var builder strings.Builder
	builder.WriteString("Today is ")
	builder.WriteString(i.clock().Format("Monday, 2006-01-02"))
	builder.WriteString(".\n")

	if len(listing) == 0 {
		builder.WriteString("There are no appointments on file.")
		return builder.String()
	}

	builder.WriteString("Current appointments:\n")
	for _, appt := range listing {
		fmt.Fprintf(&builder, "- id %d: %s, %s, %s %s, %s\n",
			appt.ID, appt.PatientName, appt.Department,
			appt.AppointmentDate, appt.AppointmentTime, appt.Status)
	}
	return builder.String()
}

// decodeIntent parses the model output, tolerating code fences and
// surrounding prose around the JSON object.
func decodeIntent(raw string) (*Intent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	jsonText := raw
	if !strings.HasPrefix(jsonText, "{") {
		start := strings.Index(jsonText, "{")
		end := strings.LastIndex(jsonText, "}")
		if start >= 0 && end > start {
			jsonText = jsonText[start : end+1]
		}
	}

	var intent Intent
	if err := json.Unmarshal([]byte(jsonText), &intent); err != nil {
		return nil, fmt.Errorf("conversation: intent parse: %w", err)
	}

	switch intent.Action {
	case ActionBook, ActionCancel, ActionReschedule, ActionQuery, ActionChitChat, ActionClarify:
		return &intent, nil
	default:
		return nil, fmt.Errorf("conversation: unknown intent action %q", intent.Action)
	}
}
