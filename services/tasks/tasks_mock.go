package tasks

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"reactodo/models"
	"reactodo/services"
)

type MockTasksService struct {
	mock.Mock
}

func (m *MockTasksService) MaterializeSlackTask(
	ctx context.Context,
	params services.MaterializeTaskParams,
) (*models.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTasksService) GetTaskByID(ctx context.Context, id string) (mo.Option[*models.Task], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Task]), args.Error(1)
}
