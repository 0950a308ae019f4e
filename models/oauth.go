package models

// SlackOAuthPayload is the raw oauth.v2.access exchange response as received
// from Slack, before validation. Both the bot-scoped and the user-scoped
// token/scope pairs are optional on the wire.
type SlackOAuthPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`

	// Bot-scoped grant
	AccessToken string `json:"access_token,omitempty"`
	Scope       string `json:"scope,omitempty"`

	// User-scoped grant
	AuthedUserID          string `json:"authed_user_id,omitempty"`
	AuthedUserAccessToken string `json:"authed_user_access_token,omitempty"`
	AuthedUserScope       string `json:"authed_user_scope,omitempty"`

	IsEnterpriseInstall bool `json:"is_enterprise_install,omitempty"`
}

// Masked returns a copy with both token fields redacted while preserving every
// other field, for safe logging.
func (p SlackOAuthPayload) Masked() SlackOAuthPayload {
	masked := p
	if masked.AccessToken != "" {
		masked.AccessToken = "[REDACTED]"
	}
	if masked.AuthedUserAccessToken != "" {
		masked.AuthedUserAccessToken = "[REDACTED]"
	}
	return masked
}
