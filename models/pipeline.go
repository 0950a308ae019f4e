package models

// SlackReactionEvent is the reaction_added-shaped payload carried by an
// inbound webhook call.
type SlackReactionEvent struct {
	Reaction       string `json:"reaction"`
	ReactingUserID string `json:"user"`
	ChannelID      string `json:"channel"`
	MessageTS      string `json:"ts"`
	ItemUserID     string `json:"item_user"`
}

// Key returns the deterministic dedup key for this event.
func (e SlackReactionEvent) Key() string {
	return EventKey(e.ChannelID, e.MessageTS, e.Reaction, e.ReactingUserID)
}

// PipelineOutcomeKind is the closed set of terminal pipeline states, so
// transport-layer status mapping is a single exhaustive switch.
type PipelineOutcomeKind string

const (
	// PipelineOutcomeCreated - a task was materialized from the reaction.
	PipelineOutcomeCreated PipelineOutcomeKind = "created"
	// PipelineOutcomeIgnored - the reaction came from someone other than the
	// webhook owner. Success-shaped so Slack does not retry.
	PipelineOutcomeIgnored PipelineOutcomeKind = "ignored"
	// PipelineOutcomeAlreadyProcessed - duplicate delivery of an event that
	// already produced a task.
	PipelineOutcomeAlreadyProcessed PipelineOutcomeKind = "already_processed"
	// PipelineOutcomeNotConfigured - the reaction matches none of the user's
	// configured urgency emojis.
	PipelineOutcomeNotConfigured PipelineOutcomeKind = "not_configured"
	// PipelineOutcomeFailed - genuine failure; FailureKind says which.
	PipelineOutcomeFailed PipelineOutcomeKind = "failed"
)

// PipelineFailureKind qualifies a failed outcome.
type PipelineFailureKind string

const (
	PipelineFailureWebhookNotFound    PipelineFailureKind = "webhook_not_found"
	PipelineFailureOwnerNotConfigured PipelineFailureKind = "owner_slack_id_not_configured"
	PipelineFailureExternalService    PipelineFailureKind = "external_service"
	PipelineFailureInternal           PipelineFailureKind = "internal"
)

// PipelineOutcome is the terminal result of processing one webhook event.
type PipelineOutcome struct {
	Kind        PipelineOutcomeKind `json:"status"`
	TaskID      string              `json:"task_id,omitempty"`
	FailureKind PipelineFailureKind `json:"failure_kind,omitempty"`
	Message     string              `json:"message,omitempty"`
}
