package i18n

import "github.com/amanecerai/server/models"

// Lang selects a dictionary. Spanish is the canonical product language.
type Lang string

const (
	ES Lang = "es"
	EN Lang = "en"
)

func ParseLang(raw string) Lang {
	if raw == string(EN) {
		return EN
	}
	return ES
}

var moodLabels = map[Lang]map[models.MoodLabelKey]string{
	ES: {
		models.MoodVeryBad:  "Muy mal",
		models.MoodNeutral:  "Neutral",
		models.MoodOk:       "Bien",
		models.MoodGreat:    "Genial",
		models.MoodVeryGood: "Increíble",
	},
	EN: {
		models.MoodVeryBad:  "Very bad",
		models.MoodNeutral:  "Neutral",
		models.MoodOk:       "Good",
		models.MoodGreat:    "Great",
		models.MoodVeryGood: "Amazing",
	},
}

var focusLabels = map[Lang]map[models.Focus]string{
	ES: {
		models.FocusSelfEsteem: "Autoestima",
		models.FocusAnxiety:    "Ansiedad",
		models.FocusMotivation: "Motivación",
	},
	EN: {
		models.FocusSelfEsteem: "Self-esteem",
		models.FocusAnxiety:    "Anxiety",
		models.FocusMotivation: "Motivation",
	},
}

var notificationTones = map[Lang]map[models.NotificationTone]string{
	ES: {
		models.ToneGentle:       "Amable",
		models.ToneDirect:       "Directo",
		models.ToneMotivational: "Motivador",
	},
	EN: {
		models.ToneGentle:       "Gentle",
		models.ToneDirect:       "Direct",
		models.ToneMotivational: "Motivational",
	},
}

var notificationLengths = map[Lang]map[models.NotificationLength]string{
	ES: {
		models.LengthShort:    "Corto",
		models.LengthMedium:   "Medio",
		models.LengthDetailed: "Detallado",
	},
	EN: {
		models.LengthShort:    "Short",
		models.LengthMedium:   "Medium",
		models.LengthDetailed: "Detailed",
	},
}

// MoodLabel translates a mood label key for display.
func MoodLabel(lang Lang, key models.MoodLabelKey) string {
	if s, ok := moodLabels[lang][key]; ok {
		return s
	}
	return moodLabels[ES][models.MoodNeutral]
}

// FocusLabel translates a focus area for display.
func FocusLabel(lang Lang, focus models.Focus) string {
	if s, ok := focusLabels[lang][focus]; ok {
		return s
	}
	return string(focus)
}

func NotificationTone(lang Lang, tone models.NotificationTone) string {
	if s, ok := notificationTones[lang][tone]; ok {
		return s
	}
	return string(tone)
}

func NotificationLength(lang Lang, length models.NotificationLength) string {
	if s, ok := notificationLengths[lang][length]; ok {
		return s
	}
	return string(length)
}
