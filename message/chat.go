package message

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"

	"github.com/amanecerai/server/i18n"
	"github.com/amanecerai/server/models"
)

var chatContexts = map[i18n.Lang]string{
	i18n.ES: "Contexto del usuario: Su nombre es %s. Su enfoque principal es %s. Sus estados de ánimo más recientes son: %s.",
	i18n.EN: "User context: Their name is %s. Their main focus is %s. Their most recent moods are: %s.",
}

var noMoodsLogged = map[i18n.Lang]string{
	i18n.ES: "No se han registrado",
	i18n.EN: "None have been logged",
}

var chatGreetings = map[i18n.Lang]string{
	i18n.ES: "Hola, empecemos nuestra conversación.",
	i18n.EN: "Hello, let's start our conversation.",
}

var chatInitErrors = map[i18n.Lang]string{
	i18n.ES: "Lo siento, no pude iniciar nuestra conversación. Por favor, intenta volver más tarde.",
	i18n.EN: "Sorry, I couldn't start our conversation. Please try coming back later.",
}

var chatSendErrors = map[i18n.Lang]string{
	i18n.ES: "Hubo un problema al enviar tu mensaje. ¿Podrías intentarlo de nuevo?",
	i18n.EN: "There was a problem sending your message. Could you please try again?",
}

// Turn is one prior conversation exchange replayed to the provider.
type Turn struct {
	Role    models.ChatRole
	Content string
}

// ChatRequest carries the conversation plus the profile context woven into
// the system prompt. Name, Focus and Moods arrive already localized.
type ChatRequest struct {
	Turns []Turn
	Name  string
	Focus string
	Moods []string
	Lang  i18n.Lang
}

// ChatGreeting is the opening the assistant is asked to respond to when a
// user has no stored conversation yet.
func ChatGreeting(lang i18n.Lang) string {
	if s, ok := chatGreetings[lang]; ok {
		return s
	}
	return chatGreetings[i18n.ES]
}

// ChatInitError is the user-facing text for a conversation that could not
// start.
func ChatInitError(lang i18n.Lang) string {
	if s, ok := chatInitErrors[lang]; ok {
		return s
	}
	return chatInitErrors[i18n.ES]
}

// ChatSendError is the user-facing text for a turn the provider rejected.
func ChatSendError(lang i18n.Lang) string {
	if s, ok := chatSendErrors[lang]; ok {
		return s
	}
	return chatSendErrors[i18n.ES]
}

// Chat continues the conversation and returns the assistant's reply. Unlike
// Generate it surfaces provider failures, so the caller can keep a failed
// turn out of the stored history.
func (g *Generator) Chat(ctx context.Context, req ChatRequest) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	msgs = append(msgs, openai.SystemMessage(systemInstructions[req.Lang]+"\n\n"+chatContext(req)))
	for _, turn := range req.Turns {
		if turn.Role == models.ChatRoleModel {
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		} else {
			msgs = append(msgs, openai.UserMessage(turn.Content))
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    msgs,
		Temperature: openai.Float(0.8),
		TopP:        openai.Float(0.9),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("provider returned no content")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func chatContext(req ChatRequest) string {
	name := req.Name
	if name == "" {
		name = "user"
	}
	moods := noMoodsLogged[req.Lang]
	if len(req.Moods) > 0 {
		moods = strings.Join(req.Moods, ", ")
	}
	return fmt.Sprintf(chatContexts[req.Lang], name, req.Focus, moods)
}
