package clients

import (
	"context"
	"net/http"

	"reactodo/models"
)

// SlackClient defines the interface for Slack API operations used by the
// connection lifecycle and the webhook pipeline.
type SlackClient interface {
	// GetOAuthV2Response exchanges an OAuth authorization code for the raw
	// oauth.v2.access payload. Validation happens downstream.
	GetOAuthV2Response(
		httpClient *http.Client,
		clientID, clientSecret, code, redirectURL string,
	) (*models.SlackOAuthPayload, error)

	// GetMessage fetches the text of a single message identified by channel
	// and timestamp. The task body depends on it, so callers treat failure as
	// a hard error.
	GetMessage(ctx context.Context, accessToken, channelID, messageTS string) (*SlackMessage, error)
}

// TitleGenerator defines the interface for LLM-backed task title generation.
// A failing or empty result degrades to the fixed fallback title, never an
// error surfaced to Slack.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, messageText string) (string, error)
}
