package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/amanecerai/server/apperror"
	"github.com/amanecerai/server/auth"
	"github.com/amanecerai/server/models"
	"github.com/amanecerai/server/streak"
)

// LogMood appends one mood entry for the authenticated user.
func (h *Handler) LogMood(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	var mood models.EmojiMood
	if err := json.NewDecoder(r.Body).Decode(&mood); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !models.ValidMoodKey(mood.LabelKey) {
		respondError(w, http.StatusBadRequest, "unknown mood label")
		return
	}

	entry, err := h.moods.LogMood(r.Context(), token.Subject, mood)
	if err != nil {
		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// MoodHistory returns recent entries for display. Backend failure degrades
// to an empty list; the dashboard shows its empty state instead of an error.
func (h *Handler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	entries, err := h.moods.MoodHistory(r.Context(), token.Subject, limit)
	if err != nil {
		log.Printf("handlers: mood history for %s degraded to empty: %v", token.Subject, err)
		entries = []models.MoodEntry{}
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

// Streak computes the current streak from the full date list. Unlike the
// display history, a failure here is surfaced: a silently wrong streak is
// worse than an error.
func (h *Handler) Streak(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	dates, err := h.moods.MoodHistoryDates(r.Context(), token.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"streak": streak.Calculate(dates)})
}
