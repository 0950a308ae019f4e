package models

import (
	"fmt"
	"time"
)

// Webhook is a per-connection, per-user inbound endpoint registration used to
// receive Slack events. The ID is public (embedded in the webhook URL); the
// secret never leaves the backend.
type Webhook struct {
	ID           string     `db:"id"            json:"id"`
	Secret       string     `db:"secret"        json:"-"`
	ConnectionID string     `db:"connection_id" json:"connection_id"`
	UserID       string     `db:"user_id"       json:"user_id"`
	IsActive     bool       `db:"is_active"     json:"is_active"`
	EventCount   int64      `db:"event_count"   json:"event_count"`
	LastEventAt  *time.Time `db:"last_event_at" json:"last_event_at"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// WebhookURL builds the externally exposed events URL for a webhook ID.
// The shape is stable: {appBaseUrl}/api/slack/events/user/{webhookId}
func WebhookURL(appBaseURL, webhookID string) string {
	return fmt.Sprintf("%s/api/slack/events/user/%s", appBaseURL, webhookID)
}
