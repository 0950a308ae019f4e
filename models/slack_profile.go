package models

import (
	"regexp"
	"time"
)

var slackUserIDRegex = regexp.MustCompile(`^U[A-Z0-9]{8,}$`)

// IsValidSlackUserID reports whether the given string looks like a Slack user
// ID (U followed by at least 8 uppercase alphanumerics).
func IsValidSlackUserID(userID string) bool {
	return slackUserIDRegex.MatchString(userID)
}

// UserSlackProfile holds a user's Slack-side identity configuration. A
// reaction cannot trigger task creation unless the reacting Slack user ID
// matches the webhook owner's configured SlackUserID.
type UserSlackProfile struct {
	ID                   string    `db:"id"                    json:"id"`
	UserID               string    `db:"user_id"               json:"user_id"`
	SlackUserID          *string   `db:"slack_user_id"         json:"slack_user_id"`
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notifications_enabled"`
	CreatedAt            time.Time `db:"created_at"            json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"            json:"updated_at"`
}
