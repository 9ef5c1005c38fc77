package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/auth"

	"github.com/amanecerai/server/auth"
	"github.com/amanecerai/server/i18n"
	"github.com/amanecerai/server/message"
	"github.com/amanecerai/server/models"
)

// ChatHistory returns the stored conversation, oldest first. A user with no
// history gets the assistant's opening line generated and persisted, so the
// conversation never starts empty.
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	lang := i18n.ParseLang(r.URL.Query().Get("lang"))

	messages, err := h.chats.Messages(r.Context(), token.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(messages) == 0 {
		req := h.chatRequest(r.Context(), token, lang, nil)
		req.Turns = []message.Turn{{Role: models.ChatRoleUser, Content: message.ChatGreeting(lang)}}

		opening, err := h.messages.Chat(r.Context(), req)
		if err != nil {
			log.Printf("handlers: chat opening failed for %s: %v", token.Subject, err)
			respondError(w, http.StatusBadGateway, message.ChatInitError(lang))
			return
		}

		saved, err := h.chats.AppendMessage(r.Context(), token.Subject, models.ChatRoleModel, opening)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		messages = []models.ChatMessage{*saved}
	}

	respondJSON(w, http.StatusOK, messages)
}

// SendChatMessage appends the user's turn, asks the assistant to continue
// the conversation, and persists the reply. The user's turn is kept even
// when the provider fails, so nothing they wrote is lost.
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	lang := i18n.ParseLang(r.URL.Query().Get("lang"))

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	text := strings.TrimSpace(body.Message)
	if text == "" {
		respondError(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	history, err := h.chats.Messages(r.Context(), token.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := h.chats.AppendMessage(r.Context(), token.Subject, models.ChatRoleUser, text); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	turns := make([]message.Turn, 0, len(history)+1)
	for _, msg := range history {
		turns = append(turns, message.Turn{Role: msg.Role, Content: msg.Content})
	}
	turns = append(turns, message.Turn{Role: models.ChatRoleUser, Content: text})

	reply, err := h.messages.Chat(r.Context(), h.chatRequest(r.Context(), token, lang, turns))
	if err != nil {
		log.Printf("handlers: chat reply failed for %s: %v", token.Subject, err)
		respondError(w, http.StatusBadGateway, message.ChatSendError(lang))
		return
	}

	saved, err := h.chats.AppendMessage(r.Context(), token.Subject, models.ChatRoleModel, reply)
	if err != nil {
		// The reply exists; losing its row should not eat it.
		log.Printf("handlers: chat reply not persisted for %s: %v", token.Subject, err)
		saved = &models.ChatMessage{UserID: token.Subject, Role: models.ChatRoleModel, Content: reply}
	}

	respondJSON(w, http.StatusOK, saved)
}

// chatRequest assembles the profile context woven into the chat system
// prompt. Both lookups degrade: a conversation with thin context beats no
// conversation.
func (h *Handler) chatRequest(ctx context.Context, token *firebase.Token, lang i18n.Lang, turns []message.Turn) message.ChatRequest {
	req := message.ChatRequest{Turns: turns, Lang: lang, Name: auth.Name(token)}

	profile, err := h.profiles.ProfileByID(ctx, token.Subject)
	if err != nil {
		log.Printf("handlers: chat context profile fetch failed for %s: %v", token.Subject, err)
	} else if profile != nil {
		if profile.Name != nil && *profile.Name != "" {
			req.Name = *profile.Name
		}
		if profile.Focus != nil {
			req.Focus = i18n.FocusLabel(lang, *profile.Focus)
		}
	}

	entries, err := h.moods.MoodHistory(ctx, token.Subject, 3)
	if err != nil {
		log.Printf("handlers: chat context mood fetch failed for %s: %v", token.Subject, err)
	}
	for _, entry := range entries {
		req.Moods = append(req.Moods, i18n.MoodLabel(lang, entry.LabelKey))
	}

	return req
}
