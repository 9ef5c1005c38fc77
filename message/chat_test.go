package message

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amanecerai/server/i18n"
	"github.com/amanecerai/server/models"
	"github.com/stretchr/testify/assert"
)

func TestChatReplaysConversation(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " Me alegra leer eso. "}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	g := NewGenerator("test-key", srv.URL, "")
	reply, err := g.Chat(context.Background(), ChatRequest{
		Turns: []Turn{
			{Role: models.ChatRoleModel, Content: "Hola Ana."},
			{Role: models.ChatRoleUser, Content: "Hoy me siento mejor."},
		},
		Name:  "Ana",
		Focus: "Ansiedad",
		Moods: []string{"Bien", "Neutral"},
		Lang:  i18n.ES,
	})

	assert.Nil(t, err)
	assert.Equal(t, "Me alegra leer eso.", reply)

	msgs := captured["messages"].([]interface{})
	assert.Len(t, msgs, 3)

	system := msgs[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	content := system["content"].(string)
	assert.Contains(t, content, "Su nombre es Ana")
	assert.Contains(t, content, "Ansiedad")
	assert.Contains(t, content, "Bien, Neutral")

	assert.Equal(t, "assistant", msgs[1].(map[string]interface{})["role"])
	assert.Equal(t, "user", msgs[2].(map[string]interface{})["role"])
}

func TestChatSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGenerator("test-key", srv.URL, "")
	reply, err := g.Chat(context.Background(), ChatRequest{Lang: i18n.ES})

	assert.NotNil(t, err)
	assert.Empty(t, reply)
}

func TestChatContextFallsBackWhenEmpty(t *testing.T) {
	content := chatContext(ChatRequest{Lang: i18n.EN})
	assert.Contains(t, content, "Their name is user")
	assert.Contains(t, content, "None have been logged")
}

func TestChatStringsAreLocalized(t *testing.T) {
	assert.NotEqual(t, ChatGreeting(i18n.ES), ChatGreeting(i18n.EN))
	assert.NotEqual(t, ChatInitError(i18n.ES), ChatInitError(i18n.EN))
	assert.NotEqual(t, ChatSendError(i18n.ES), ChatSendError(i18n.EN))
}
