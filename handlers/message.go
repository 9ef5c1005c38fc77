package handlers

import (
	"net/http"

	"github.com/amanecerai/server/auth"
	"github.com/amanecerai/server/i18n"
	"github.com/amanecerai/server/message"
	"github.com/amanecerai/server/models"
)

// DailyMessage generates the supportive message for the authenticated user,
// tailored by their focus and notification preferences.
func (h *Handler) DailyMessage(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	profile, err := h.profiles.ProfileByID(r.Context(), token.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil || profile.Focus == nil {
		respondError(w, http.StatusConflict, "no focus set, complete onboarding first")
		return
	}

	kind := message.Dashboard
	if r.URL.Query().Get("kind") == string(message.Morning) {
		kind = message.Morning
	}
	lang := i18n.ParseLang(r.URL.Query().Get("lang"))

	prefs := models.DefaultNotificationPreferences()
	if profile.NotificationPreferences != nil {
		prefs = *profile.NotificationPreferences
	}

	text := h.messages.Generate(r.Context(), message.Request{
		Kind:  kind,
		Focus: *profile.Focus,
		Prefs: prefs,
		Lang:  lang,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": text})
}
