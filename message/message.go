package message

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/amanecerai/server/i18n"
	"github.com/amanecerai/server/models"
)

// Kind selects which supportive message is being generated.
type Kind string

const (
	Morning   Kind = "morning"
	Dashboard Kind = "dashboard"
)

const DefaultModel = "gemini-2.5-flash"

// The provider speaks the OpenAI chat-completions dialect; Gemini and
// compatible gateways are addressed through the base URL.
var systemInstructions = map[i18n.Lang]string{
	i18n.ES: `Eres "AmanecerIA", una IA de apoyo emocional compasiva y sabia. Tu propósito es entregar un mensaje matutino breve, accionable y empático basado en los principios de la Terapia Cognitivo-Conductual (TCC) y la Psicología Positiva. Tu tono debe ser cálido, profesional y alentador, nunca clínico o robótico. No des consejos médicos ni actúes como un terapeuta. Tu mensaje debe ser conciso (máximo 60-70 palabras) y ayudar al usuario a reencuadrar positivamente su día. No uses emojis. No te presentes en cada mensaje. Ve directo al punto.`,
	i18n.EN: `You are "AmanecerIA", a compassionate and wise emotional support AI. Your purpose is to deliver a brief, actionable, and empathetic morning message based on Cognitive Behavioral Therapy (CBT) and Positive Psychology principles. Your tone should be warm, professional, and encouraging, never clinical or robotic. Do not give medical advice or act as a therapist. Your message should be concise (60-70 words max) and help the user positively reframe their day. Do not use emojis. Do not introduce yourself in every message. Get straight to the point.`,
}

var fallbacks = map[i18n.Lang]map[Kind]string{
	i18n.ES: {
		Morning:   "Lo siento, ha ocurrido un error al generar tu mensaje. Por favor, inténtalo de nuevo más tarde.",
		Dashboard: "Lo siento, no pudimos generar tu mensaje personalizado en este momento. Inténtalo de nuevo más tarde.",
	},
	i18n.EN: {
		Morning:   "Sorry, an error occurred while generating your message. Please try again later.",
		Dashboard: "Sorry, we couldn't generate your personalized message right now. Please try again later.",
	},
}

// Request carries the per-user preferences interpolated into the prompt.
type Request struct {
	Kind  Kind
	Focus models.Focus
	Prefs models.NotificationPreferences
	Lang  i18n.Lang
}

// Generator produces the daily supportive message. Constructed explicitly
// and injected so tests can point it at a fake endpoint.
type Generator struct {
	client openai.Client
	model  string
}

func NewGenerator(apiKey, baseURL, model string) *Generator {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Generate returns the tailored message, or the localized fallback when the
// provider call fails. The fallback path never returns an error: a missing
// message must not break the dashboard.
func (g *Generator) Generate(ctx context.Context, req Request) string {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstructions[req.Lang]),
			openai.UserMessage(buildPrompt(req)),
		},
		Temperature: openai.Float(0.8),
		TopP:        openai.Float(0.9),
	})
	if err != nil {
		log.Printf("message: provider call failed: %v", err)
		return Fallback(req.Lang, req.Kind)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		log.Printf("message: provider returned no content")
		return Fallback(req.Lang, req.Kind)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// Fallback returns the canned message used when generation fails.
func Fallback(lang i18n.Lang, kind Kind) string {
	if byKind, ok := fallbacks[lang]; ok {
		if msg, ok := byKind[kind]; ok {
			return msg
		}
	}
	return fallbacks[i18n.ES][Dashboard]
}

func buildPrompt(req Request) string {
	tone := i18n.NotificationTone(req.Lang, req.Prefs.Tone)
	length := i18n.NotificationLength(req.Lang, req.Prefs.Length)

	if req.Lang == i18n.EN {
		return fmt.Sprintf(
			"The user's chosen focus area is: %s. Preferred tone: %s. Preferred length: %s. Write their supportive message for today.",
			req.Focus, tone, length,
		)
	}
	return fmt.Sprintf(
		"El área de enfoque elegida por el usuario es: %s. Tono preferido: %s. Longitud preferida: %s. Escribe su mensaje de apoyo para hoy.",
		req.Focus, tone, length,
	)
}
