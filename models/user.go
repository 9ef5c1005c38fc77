package models

import "encoding/json"

// Focus is the user-selected thematic area used to tailor generated
// messages. Values are stored as the canonical Spanish strings.
type Focus string

const (
	FocusSelfEsteem Focus = "Autoestima"
	FocusAnxiety    Focus = "Ansiedad"
	FocusMotivation Focus = "Motivación"
)

var FocusOptions = []Focus{FocusSelfEsteem, FocusAnxiety, FocusMotivation}

func ValidFocus(f Focus) bool {
	for _, opt := range FocusOptions {
		if f == opt {
			return true
		}
	}
	return false
}

type NotificationTone string

const (
	ToneGentle       NotificationTone = "Amable"
	ToneDirect       NotificationTone = "Directo"
	ToneMotivational NotificationTone = "Motivador"
)

type NotificationLength string

const (
	LengthShort    NotificationLength = "Corto"
	LengthMedium   NotificationLength = "Medio"
	LengthDetailed NotificationLength = "Detallado"
)

type NotificationPreferences struct {
	Tone   NotificationTone   `json:"tone"`
	Length NotificationLength `json:"length"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Tone: ToneGentle, Length: LengthMedium}
}

func (p NotificationPreferences) Valid() bool {
	toneOK := p.Tone == ToneGentle || p.Tone == ToneDirect || p.Tone == ToneMotivational
	lengthOK := p.Length == LengthShort || p.Length == LengthMedium || p.Length == LengthDetailed
	return toneOK && lengthOK
}

// Profile is the row stored for an authenticated identity. Optional columns
// come back as pointers so callers can tell unset from empty.
type Profile struct {
	Name                    *string                  `json:"name"`
	Focus                   *Focus                   `json:"focus"`
	PhotoURL                *string                  `json:"photoUrl"`
	IsPremium               bool                     `json:"isPremium"`
	NotificationPreferences *NotificationPreferences `json:"notificationPreferences"`
	PushSubscription        json.RawMessage          `json:"pushSubscription,omitempty"`
}

// User is the published view of an authenticated user, assembled by the
// session manager from the auth token and the profile row.
type User struct {
	ID                      string                  `json:"id"`
	Email                   string                  `json:"email"`
	Name                    string                  `json:"name"`
	Focus                   Focus                   `json:"focus,omitempty"`
	PhotoURL                string                  `json:"photoUrl,omitempty"`
	IsPremium               bool                    `json:"isPremium"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	PushSubscription        json.RawMessage         `json:"pushSubscription,omitempty"`
}
