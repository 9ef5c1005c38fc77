package models

// MoodLabelKey is the stable five-point identifier exposed on the API.
type MoodLabelKey string

const (
	MoodVeryBad  MoodLabelKey = "very_bad"
	MoodNeutral  MoodLabelKey = "neutral"
	MoodOk       MoodLabelKey = "ok"
	MoodGreat    MoodLabelKey = "great"
	MoodVeryGood MoodLabelKey = "very_good"
)

// EmojiMood pairs a display glyph with its label key. The canonical label is
// the human-readable Spanish string persisted in mood_history rows.
type EmojiMood struct {
	Emoji    string       `json:"emoji"`
	LabelKey MoodLabelKey `json:"labelKey"`
}

var EmojiMoods = []EmojiMood{
	{Emoji: "😞", LabelKey: MoodVeryBad},
	{Emoji: "😐", LabelKey: MoodNeutral},
	{Emoji: "🙂", LabelKey: MoodOk},
	{Emoji: "😄", LabelKey: MoodGreat},
	{Emoji: "🤩", LabelKey: MoodVeryGood},
}

var canonicalLabels = map[MoodLabelKey]string{
	MoodVeryBad:  "Muy mal",
	MoodNeutral:  "Neutral",
	MoodOk:       "Bien",
	MoodGreat:    "Genial",
	MoodVeryGood: "Increíble",
}

// CanonicalMoodLabel returns the persisted Spanish label for a key.
func CanonicalMoodLabel(key MoodLabelKey) (string, bool) {
	label, ok := canonicalLabels[key]
	return label, ok
}

// MoodKeyForLabel maps a persisted label back to its stable key. Unknown
// labels map to MoodNeutral so old rows still render.
func MoodKeyForLabel(label string) MoodLabelKey {
	for key, canonical := range canonicalLabels {
		if canonical == label {
			return key
		}
	}
	return MoodNeutral
}

func ValidMoodKey(key MoodLabelKey) bool {
	_, ok := canonicalLabels[key]
	return ok
}

// MoodEntry is one immutable mood log row. CreatedAt is the backend
// timestamp as an ISO-8601 string.
type MoodEntry struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	CreatedAt string       `json:"createdAt"`
	Emoji     string       `json:"emoji"`
	LabelKey  MoodLabelKey `json:"labelKey"`
}
