package models

import (
	"time"
)

// Urgency is one of the three buckets driving default deadline computation.
type Urgency string

const (
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencyLater    Urgency = "later"
)

// AllowedEmojis is the fixed allow-list users can pick their urgency emojis from.
var AllowedEmojis = []string{
	"fire",
	"rotating_light",
	"alarm_clock",
	"hourglass",
	"calendar",
	"spiral_calendar_pad",
	"turtle",
	"bookmark",
	"pushpin",
	"memo",
	"inbox_tray",
	"eyes",
}

// DefaultEmojiMapping applies when a user has no stored mapping (or the stored
// record is malformed).
var DefaultEmojiMapping = EmojiMapping{
	TodayEmoji:    "fire",
	TomorrowEmoji: "hourglass",
	LaterEmoji:    "turtle",
}

// EmojiMapping is a user's configured reaction-name-to-urgency assignment.
// The three emoji names must be mutually distinct and drawn from AllowedEmojis.
type EmojiMapping struct {
	ID            string    `db:"id"             json:"id"`
	UserID        string    `db:"user_id"        json:"user_id"`
	TodayEmoji    string    `db:"today_emoji"    json:"today_emoji"`
	TomorrowEmoji string    `db:"tomorrow_emoji" json:"tomorrow_emoji"`
	LaterEmoji    string    `db:"later_emoji"    json:"later_emoji"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// UrgencyFor returns the urgency bucket configured for the given reaction name,
// or false if the reaction matches none of the three configured emoji.
func (m *EmojiMapping) UrgencyFor(reaction string) (Urgency, bool) {
	switch reaction {
	case m.TodayEmoji:
		return UrgencyToday, true
	case m.TomorrowEmoji:
		return UrgencyTomorrow, true
	case m.LaterEmoji:
		return UrgencyLater, true
	}
	return "", false
}
