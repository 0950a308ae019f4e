package anthropic

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTitleGenerator is a mock implementation of the clients.TitleGenerator interface
type MockTitleGenerator struct {
	mock.Mock
}

func (m *MockTitleGenerator) GenerateTitle(ctx context.Context, messageText string) (string, error) {
	args := m.Called(ctx, messageText)
	return args.String(0), args.Error(1)
}
