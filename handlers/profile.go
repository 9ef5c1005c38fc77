package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v3"

	"github.com/amanecerai/server/auth"
	"github.com/amanecerai/server/models"
	"github.com/amanecerai/server/session"
	"github.com/amanecerai/server/validate"
)

// Me feeds the current auth state into the session manager and returns the
// published snapshot. The middleware's verified token is the session source.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	mgr := h.sessions.ManagerFor(token.Subject)
	mgr.HandleEvent(r.Context(), session.Event{
		Kind: session.SignedIn,
		Session: &session.Session{
			UserID:   token.Subject,
			Email:    auth.Email(token),
			Metadata: map[string]string{"name": auth.Name(token)},
		},
	})

	respondJSON(w, http.StatusOK, mgr.Snapshot())
}

// SessionEvent ingests an explicit auth transition, e.g. a sign-out beacon
// or a token refresh, for the authenticated user.
func (h *Handler) SessionEvent(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var body struct {
		Kind session.EventKind `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	mgr := h.sessions.ManagerFor(token.Subject)
	switch body.Kind {
	case session.SignedOut:
		mgr.HandleEvent(r.Context(), session.Event{Kind: session.SignedOut})
	case session.SignedIn, session.TokenRefreshed:
		mgr.HandleEvent(r.Context(), session.Event{
			Kind: body.Kind,
			Session: &session.Session{
				UserID:   token.Subject,
				Email:    auth.Email(token),
				Metadata: map[string]string{"name": auth.Name(token)},
			},
		})
	default:
		respondError(w, http.StatusBadRequest, "unknown event kind")
		return
	}

	respondJSON(w, http.StatusOK, mgr.Snapshot())
}

// CompleteSignup makes sure a profile row exists for a fresh account and
// sends the welcome email.
func (h *Handler) CompleteSignup(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	email := auth.Email(token)
	if err := validate.Email(email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profiles.ProfileByID(r.Context(), token.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		if err := h.profiles.CreateDefaultProfile(r.Context(), token.Subject, auth.Name(token)); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if err := sendWelcomeEmail(email); err != nil {
		// The account is fine; only the greeting failed.
		log.Printf("handlers: welcome email to %s failed: %v", email, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func sendWelcomeEmail(recipient string) error {
	mgKey := os.Getenv("MAILGUN_KEY")
	if mgKey == "" {
		log.Println("MAILGUN_KEY not set, skipping welcome email")
		return nil
	}
	mg := mailgun.NewMailgun("mg.amanecer-ia.com", mgKey)

	sender := "Equipo AmanecerIA <hola@amanecer-ia.com>"
	subject := "Bienvenido/a a tu amanecer"
	body := ""

	msg := mg.NewMessage(sender, subject, body, recipient)
	msg.SetTemplate("app-template")
	msg.AddTemplateVariable("content", `¡Hola! 👋<br><br>

  Nos alegra acompañarte en tu camino hacia el bienestar. Cada mañana recibirás un mensaje pensado para ti.<br><br>

  1. <b>Registra tu ánimo cada día.</b> Un momento basta para construir tu racha.<br>
  2. <b>No pasa nada si un día se te olvida.</b> Aquí empezamos de nuevo sin culpa.<br>
  3. <b>Elige tu enfoque.</b> Tus mensajes se adaptan a lo que necesitas ahora.<br><br>

  Si podemos ayudarte en algo, responde directamente a este correo.<br><br>

  Con cariño,<br>
  Equipo AmanecerIA 🌅
  `)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, _, err := mg.Send(ctx, msg)
	return err
}

func (h *Handler) UpdateFocus(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var body struct {
		Focus models.Focus `json:"focus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !models.ValidFocus(body.Focus) {
		respondError(w, http.StatusBadRequest, "invalid focus")
		return
	}

	if err := h.profiles.UpdateFocus(r.Context(), token.Subject, body.Focus); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]models.Focus{"focus": body.Focus})
}

func (h *Handler) UpdateName(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	name := validate.Sanitize(body.Name)
	if err := validate.NotEmpty(name, "Name"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profiles.UpdateName(r.Context(), token.Subject, name); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var body struct {
		PhotoURL string `json:"photoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PhotoURL == "" {
		respondError(w, http.StatusBadRequest, "invalid photo url")
		return
	}

	updated, err := h.profiles.UpdatePhotoURL(r.Context(), token.Subject, body.PhotoURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"photoUrl": updated})
}

func (h *Handler) UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var prefs models.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil || !prefs.Valid() {
		respondError(w, http.StatusBadRequest, "invalid notification preferences")
		return
	}

	if err := h.profiles.UpdateNotificationPreferences(r.Context(), token.Subject, prefs); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// UpdatePushSubscription stores the browser's push-subscription payload as
// opaque JSON. An empty body clears it.
func (h *Handler) UpdatePushSubscription(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid subscription payload")
		return
	}
	if string(raw) == "null" {
		raw = nil
	}

	if err := h.profiles.UpdatePushSubscription(r.Context(), token.Subject, raw); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetPushSubscription(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	sub, err := h.profiles.PushSubscription(r.Context(), token.Subject)
	if err != nil {
		// Missing column or row is not worth breaking the page over.
		log.Printf("handlers: fetching push subscription: %v", err)
	}
	if sub == nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sub)
}
