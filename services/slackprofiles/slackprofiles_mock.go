package slackprofiles

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"reactodo/models"
)

type MockSlackProfilesService struct {
	mock.Mock
}

func (m *MockSlackProfilesService) GetSlackProfileByUserID(
	ctx context.Context,
	userID string,
) (mo.Option[*models.UserSlackProfile], error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mo.Option[*models.UserSlackProfile]), args.Error(1)
}

func (m *MockSlackProfilesService) UpsertSlackProfile(
	ctx context.Context,
	userID string,
	slackUserID *string,
	notificationsEnabled bool,
) (*models.UserSlackProfile, error) {
	args := m.Called(ctx, userID, slackUserID, notificationsEnabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSlackProfile), args.Error(1)
}

func (m *MockSlackProfilesService) ClearSlackUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
