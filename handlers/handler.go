package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/amanecerai/server/message"
	"github.com/amanecerai/server/repositories"
	"github.com/amanecerai/server/session"
)

// Handler carries the wired dependencies for the HTTP surface. Everything is
// injected; nothing reaches for package-level clients.
type Handler struct {
	profiles repositories.ProfileRepository
	moods    repositories.MoodRepository
	chats    repositories.ChatRepository
	sessions *session.Registry
	messages *message.Generator
}

func New(profiles repositories.ProfileRepository, moods repositories.MoodRepository, chats repositories.ChatRepository, sessions *session.Registry, messages *message.Generator) *Handler {
	return &Handler{
		profiles: profiles,
		moods:    moods,
		chats:    chats,
		sessions: sessions,
		messages: messages,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Post("/session/events", h.SessionEvent)
	r.Post("/signup/complete", h.CompleteSignup)

	r.Route("/profile", func(r chi.Router) {
		r.Put("/focus", h.UpdateFocus)
		r.Put("/name", h.UpdateName)
		r.Put("/photo", h.UpdatePhoto)
		r.Put("/notifications", h.UpdateNotificationPreferences)
		r.Put("/push", h.UpdatePushSubscription)
		r.Get("/push", h.GetPushSubscription)
	})

	r.Route("/moods", func(r chi.Router) {
		r.Post("/", h.LogMood)
		r.Get("/", h.MoodHistory)
		r.Get("/streak", h.Streak)
	})

	r.Get("/message", h.DailyMessage)

	r.Route("/chat", func(r chi.Router) {
		r.Get("/", h.ChatHistory)
		r.Post("/", h.SendChatMessage)
	})

	r.Post("/checkout", h.CreateCheckoutSession)
	r.Post("/subscriptions", h.CreateSubscription)
	r.Delete("/subscriptions/{id}", h.CancelSubscription)

	return r
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("handlers: encoding response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func accessDenied(w http.ResponseWriter) {
	respondError(w, http.StatusForbidden, "Access denied")
}
