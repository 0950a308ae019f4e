package models

import (
	"regexp"
	"strings"
	"time"
)

// SlackTokenType classifies which OAuth tokens were granted on a connection.
type SlackTokenType string

const (
	SlackTokenTypeBoth SlackTokenType = "both"
	SlackTokenTypeUser SlackTokenType = "user"
	SlackTokenTypeBot  SlackTokenType = "bot"
)

// BasicConnectionScopes are the baseline capabilities a connection needs for
// message and reaction access.
var BasicConnectionScopes = []string{"channels:history", "reactions:read"}

var slackTeamIDRegex = regexp.MustCompile(`^T[A-Z0-9]{8,}$`)

// IsValidSlackTeamID reports whether the given string looks like a Slack
// workspace ID (T followed by at least 8 uppercase alphanumerics).
func IsValidSlackTeamID(teamID string) bool {
	return slackTeamIDRegex.MatchString(teamID)
}

// SlackConnection is an OAuth-derived link between a user and a Slack workspace.
type SlackConnection struct {
	ID            string         `db:"id"             json:"id"`
	UserID        string         `db:"user_id"        json:"user_id"`
	SlackTeamID   string         `db:"slack_team_id"  json:"slack_team_id"`
	SlackTeamName string         `db:"slack_team_name" json:"slack_team_name"`
	WorkspaceName string         `db:"workspace_name" json:"workspace_name"`
	AccessToken   string         `db:"access_token"   json:"-"`
	TokenType     SlackTokenType `db:"token_type"     json:"token_type"`
	Scope         string         `db:"scope"          json:"scope"`
	CreatedAt     time.Time      `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"     json:"updated_at"`
}

// HasBasicScopes reports whether the connection's scope string contains every
// baseline capability required for message/reaction access.
func (c *SlackConnection) HasBasicScopes() bool {
	granted := map[string]bool{}
	for _, s := range strings.Split(c.Scope, ",") {
		granted[strings.TrimSpace(s)] = true
	}
	for _, required := range BasicConnectionScopes {
		if !granted[required] {
			return false
		}
	}
	return true
}

// Masked returns a copy with the access token redacted, safe for logging.
func (c *SlackConnection) Masked() SlackConnection {
	masked := *c
	if masked.AccessToken != "" {
		masked.AccessToken = "[REDACTED]"
	}
	return masked
}
