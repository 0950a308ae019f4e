package webhooks

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"reactodo/models"
)

type MockWebhooksService struct {
	mock.Mock
}

func (m *MockWebhooksService) EnsureWebhook(ctx context.Context, userID, connectionID string) (*models.Webhook, error) {
	args := m.Called(ctx, userID, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Webhook), args.Error(1)
}

func (m *MockWebhooksService) GetWebhookByID(ctx context.Context, id string) (mo.Option[*models.Webhook], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Webhook]), args.Error(1)
}

func (m *MockWebhooksService) GetWebhookByConnectionID(
	ctx context.Context,
	connectionID string,
) (mo.Option[*models.Webhook], error) {
	args := m.Called(ctx, connectionID)
	return args.Get(0).(mo.Option[*models.Webhook]), args.Error(1)
}

func (m *MockWebhooksService) DeactivateWebhooksByConnectionID(ctx context.Context, connectionID string) error {
	args := m.Called(ctx, connectionID)
	return args.Error(0)
}

func (m *MockWebhooksService) WebhookURL(webhookID string) string {
	args := m.Called(webhookID)
	return args.String(0)
}

func (m *MockWebhooksService) AuthorizeEvent(
	ctx context.Context,
	webhookID, reactingSlackUserID string,
) (*models.WebhookAuthorization, error) {
	args := m.Called(ctx, webhookID, reactingSlackUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebhookAuthorization), args.Error(1)
}

func (m *MockWebhooksService) RecordDelivery(ctx context.Context, webhookID string) error {
	args := m.Called(ctx, webhookID)
	return args.Error(0)
}
