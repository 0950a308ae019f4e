package processedevents

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reactodo/services"
)

type MockProcessedEventsService struct {
	mock.Mock
}

func (m *MockProcessedEventsService) ReserveEvent(
	ctx context.Context,
	webhookID, eventKey string,
) (*services.EventReservation, error) {
	args := m.Called(ctx, webhookID, eventKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EventReservation), args.Error(1)
}

func (m *MockProcessedEventsService) AttachTask(ctx context.Context, eventID, taskID string) error {
	args := m.Called(ctx, eventID, taskID)
	return args.Error(0)
}
