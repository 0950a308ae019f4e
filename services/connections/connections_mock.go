package connections

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"reactodo/models"
)

type MockConnectionsService struct {
	mock.Mock
}

func (m *MockConnectionsService) CreateSlackConnection(
	ctx context.Context,
	userID, slackAuthCode, redirectURL string,
) (*models.SlackConnection, error) {
	args := m.Called(ctx, userID, slackAuthCode, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackConnection), args.Error(1)
}

func (m *MockConnectionsService) GetSlackConnectionsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SlackConnection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SlackConnection), args.Error(1)
}

func (m *MockConnectionsService) GetSlackConnectionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.SlackConnection], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.SlackConnection]), args.Error(1)
}

func (m *MockConnectionsService) DisconnectSlackConnection(ctx context.Context, userID, connectionID string) error {
	args := m.Called(ctx, userID, connectionID)
	return args.Error(0)
}
