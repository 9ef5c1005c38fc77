package i18n

import (
	"testing"

	"github.com/amanecerai/server/models"
	"github.com/stretchr/testify/assert"
)

func TestMoodLabelTablesCoverEveryKey(t *testing.T) {
	keys := []models.MoodLabelKey{
		models.MoodVeryBad, models.MoodNeutral, models.MoodOk, models.MoodGreat, models.MoodVeryGood,
	}

	for _, lang := range []Lang{ES, EN} {
		for _, key := range keys {
			assert.NotEmpty(t, moodLabels[lang][key], "missing %s label for %s", lang, key)
		}
	}
}

func TestMoodLabelUnknownKeyFallsBack(t *testing.T) {
	assert.Equal(t, "Neutral", MoodLabel(ES, models.MoodLabelKey("bogus")))
}

func TestNotificationTables(t *testing.T) {
	assert.Equal(t, "Gentle", NotificationTone(EN, models.ToneGentle))
	assert.Equal(t, "Amable", NotificationTone(ES, models.ToneGentle))
	assert.Equal(t, "Detailed", NotificationLength(EN, models.LengthDetailed))
	assert.Equal(t, "Medio", NotificationLength(ES, models.LengthMedium))
}

func TestParseLang(t *testing.T) {
	assert.Equal(t, EN, ParseLang("en"))
	assert.Equal(t, ES, ParseLang("es"))
	assert.Equal(t, ES, ParseLang("fr"))
	assert.Equal(t, ES, ParseLang(""))
}
