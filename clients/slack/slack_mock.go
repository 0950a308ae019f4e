package slack

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"reactodo/clients"
	"reactodo/models"
)

// MockSlackClient is a mock implementation of the clients.SlackClient interface
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) GetOAuthV2Response(
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*models.SlackOAuthPayload, error) {
	args := m.Called(httpClient, clientID, clientSecret, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackOAuthPayload), args.Error(1)
}

func (m *MockSlackClient) GetMessage(
	ctx context.Context,
	accessToken, channelID, messageTS string,
) (*clients.SlackMessage, error) {
	args := m.Called(ctx, accessToken, channelID, messageTS)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SlackMessage), args.Error(1)
}
