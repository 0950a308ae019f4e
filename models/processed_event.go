package models

import (
	"fmt"
	"time"
)

// ProcessedEvent records that a specific reaction event has already produced a
// task. Rows are immutable once written and never deleted; they exist purely
// for deduplication and audit.
type ProcessedEvent struct {
	ID        string    `db:"id"         json:"id"`
	EventKey  string    `db:"event_key"  json:"event_key"`
	WebhookID string    `db:"webhook_id" json:"webhook_id"`
	TaskID    *string   `db:"task_id"    json:"task_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EventKey builds the deterministic dedup key for a reaction event. Empty
// components are permitted and simply produce a key with empty segments.
// The format is persisted and must remain stable.
func EventKey(channelID, messageTS, reaction, reactingUserID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", channelID, messageTS, reaction, reactingUserID)
}
