package connections

import (
	"fmt"

	"reactodo/core"
	"reactodo/models"
)

// ValidateOAuthPayload turns a raw oauth.v2.access payload into a validated
// connection skeleton (ID, UserID and timestamps are assigned by the caller).
// On failure it returns a core.ValidationError enumerating every violated
// rule, not just the first one hit.
func ValidateOAuthPayload(payload *models.SlackOAuthPayload) (*models.SlackConnection, error) {
	var violations []string

	if !payload.OK {
		violations = append(violations, "response indicates failure")
	}
	if payload.Error != "" {
		violations = append(violations, fmt.Sprintf("OAuth error: %s", payload.Error))
	}
	if payload.TeamID == "" {
		violations = append(violations, "team ID is missing")
	} else if !models.IsValidSlackTeamID(payload.TeamID) {
		violations = append(violations, fmt.Sprintf("team ID has invalid format: %s", payload.TeamID))
	}
	if payload.TeamName == "" {
		violations = append(violations, "team name is missing")
	}
	if payload.AccessToken == "" && payload.AuthedUserAccessToken == "" {
		violations = append(violations, "neither bot nor user access token is present")
	}
	if payload.Scope == "" && payload.AuthedUserScope == "" {
		violations = append(violations, "neither bot nor user scope is present")
	}
	if payload.AuthedUserID != "" && !models.IsValidSlackUserID(payload.AuthedUserID) {
		violations = append(violations, fmt.Sprintf("authed user ID has invalid format: %s", payload.AuthedUserID))
	}

	if len(violations) > 0 {
		return nil, core.NewValidationError(violations)
	}

	// Prefer the user-scoped token and scope over the bot-scoped ones
	accessToken := payload.AccessToken
	scope := payload.Scope
	if payload.AuthedUserAccessToken != "" {
		accessToken = payload.AuthedUserAccessToken
	}
	if payload.AuthedUserScope != "" {
		scope = payload.AuthedUserScope
	}

	return &models.SlackConnection{
		SlackTeamID:   payload.TeamID,
		SlackTeamName: payload.TeamName,
		WorkspaceName: payload.TeamName,
		AccessToken:   accessToken,
		TokenType:     classifyTokenType(payload),
		Scope:         scope,
	}, nil
}

// classifyTokenType reports which grants the payload carries. When neither
// token is present the classification defaults to "user" - a documented
// fallback rather than an error, since validation already rejects the
// no-token case before a connection is built.
func classifyTokenType(payload *models.SlackOAuthPayload) models.SlackTokenType {
	hasBot := payload.AccessToken != ""
	hasUser := payload.AuthedUserAccessToken != ""

	switch {
	case hasBot && hasUser:
		return models.SlackTokenTypeBoth
	case hasBot:
		return models.SlackTokenTypeBot
	default:
		return models.SlackTokenTypeUser
	}
}
