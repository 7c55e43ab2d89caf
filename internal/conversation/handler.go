package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

// Handler wires HTTP requests to the conversational bridge.
type Handler struct {
	bridge     *Bridge
	transcript *TranscriptStore
	logger     *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(bridge *Bridge, transcript *TranscriptStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		bridge:     bridge,
		transcript: transcript,
		logger:     logger,
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Chat handles POST /chat. It always answers 200 with a reply string; faults
// behind the bridge surface only as the generic apology.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply := h.bridge.Chat(r.Context(), req.SessionID, req.Message)

	h.writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply,
		SessionID: req.SessionID,
	})
}

// History handles GET /chat/history?session=<id>.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	msgs, err := h.transcript.List(r.Context(), sessionID, 100)
	if err != nil {
		h.logger.Error("failed to load chat history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []TranscriptMessage{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
