package models

// WebhookAuthorizationStatus is the result of checking an inbound event
// against the webhook registration and its owner's Slack identity.
type WebhookAuthorizationStatus string

const (
	// WebhookAuthorizationAuthorized - the webhook is live and the reacting
	// user is its owner.
	WebhookAuthorizationAuthorized WebhookAuthorizationStatus = "authorized"
	// WebhookAuthorizationIgnored - the reaction came from a different Slack
	// user. Normal channel activity, not an error.
	WebhookAuthorizationIgnored WebhookAuthorizationStatus = "ignored"
	// WebhookAuthorizationNotFound - no webhook registered under this ID.
	WebhookAuthorizationNotFound WebhookAuthorizationStatus = "not_found"
	// WebhookAuthorizationInactive - the webhook exists but was deactivated.
	WebhookAuthorizationInactive WebhookAuthorizationStatus = "inactive"
	// WebhookAuthorizationOwnerNotConfigured - the owner never configured
	// their Slack user ID. Action required on their side.
	WebhookAuthorizationOwnerNotConfigured WebhookAuthorizationStatus = "owner_not_configured"
)

// WebhookAuthorization carries the status plus the resolved webhook (nil when
// the webhook was not found).
type WebhookAuthorization struct {
	Status  WebhookAuthorizationStatus
	Webhook *Webhook
}
