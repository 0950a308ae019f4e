package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"reactodo/clients"
	"reactodo/models"
)

// messageFetchTimeout bounds the conversations.history call. Slack does not
// support cancelling an in-flight webhook delivery, so the timeout is local.
const messageFetchTimeout = 10 * time.Second

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct{}

// NewSlackClient creates a new Slack client. Auth tokens are supplied per
// call because each workspace connection carries its own token.
func NewSlackClient() clients.SlackClient {
	return &SlackClient{}
}

// GetOAuthV2Response exchanges an OAuth authorization code for the raw
// oauth.v2.access payload
func (c *SlackClient) GetOAuthV2Response(
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*models.SlackOAuthPayload, error) {
	slackResponse, err := slack.GetOAuthV2Response(httpClient, clientID, clientSecret, code, redirectURL)
	if err != nil {
		// slack-go surfaces oauth errors (e.g. access_denied) as SlackErrorResponse
		if serr, ok := err.(slack.SlackErrorResponse); ok {
			return &models.SlackOAuthPayload{OK: false, Error: serr.Err}, nil
		}
		return nil, err
	}

	// Map the SDK response to our raw payload struct
	return &models.SlackOAuthPayload{
		OK:                    true,
		TeamID:                slackResponse.Team.ID,
		TeamName:              slackResponse.Team.Name,
		AccessToken:           slackResponse.AccessToken,
		Scope:                 slackResponse.Scope,
		AuthedUserID:          slackResponse.AuthedUser.ID,
		AuthedUserAccessToken: slackResponse.AuthedUser.AccessToken,
		AuthedUserScope:       slackResponse.AuthedUser.Scope,
		IsEnterpriseInstall:   slackResponse.IsEnterpriseInstall,
	}, nil
}

// GetMessage fetches a single message by channel and timestamp using
// conversations.history with an inclusive latest bound
func (c *SlackClient) GetMessage(
	ctx context.Context,
	accessToken, channelID, messageTS string,
) (*clients.SlackMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, messageFetchTimeout)
	defer cancel()

	api := slack.New(accessToken)
	history, err := api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Latest:    messageTS,
		Limit:     1,
		Inclusive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation history: %w", err)
	}

	if len(history.Messages) == 0 {
		return nil, fmt.Errorf("message %s not found in channel %s", messageTS, channelID)
	}

	message := history.Messages[0]
	if message.Timestamp != messageTS {
		return nil, fmt.Errorf("message %s not found in channel %s", messageTS, channelID)
	}

	return &clients.SlackMessage{
		ChannelID: channelID,
		Timestamp: message.Timestamp,
		UserID:    message.User,
		Text:      message.Text,
	}, nil
}
