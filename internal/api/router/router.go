package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Iqra-Rahman/Medi-Bot/internal/appointments"
	"github.com/Iqra-Rahman/Medi-Bot/internal/conversation"
	httpmiddleware "github.com/Iqra-Rahman/Medi-Bot/internal/http/middleware"
	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	ChatHandler         *conversation.Handler
	MetricsHandler      http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AppointmentsHandler != nil {
		r.Get("/appointments", cfg.AppointmentsHandler.List)
		r.Get("/api/appointment/{id}", cfg.AppointmentsHandler.Get)
		r.Post("/book", cfg.AppointmentsHandler.Book)
		r.Get("/cancel/{id}", cfg.AppointmentsHandler.Cancel)
		r.Post("/reschedule/{id}", cfg.AppointmentsHandler.Reschedule)
	}

	if cfg.ChatHandler != nil {
		r.Post("/chat", cfg.ChatHandler.Chat)
		r.Get("/chat/history", cfg.ChatHandler.History)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
