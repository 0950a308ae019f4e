package emojimappings

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"reactodo/models"
)

type MockEmojiMappingsService struct {
	mock.Mock
}

func (m *MockEmojiMappingsService) GetEffectiveMapping(
	ctx context.Context,
	userID string,
) (*models.EmojiMapping, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmojiMapping), args.Error(1)
}

func (m *MockEmojiMappingsService) ResolveUrgency(
	ctx context.Context,
	userID, reaction string,
) (mo.Option[models.Urgency], error) {
	args := m.Called(ctx, userID, reaction)
	return args.Get(0).(mo.Option[models.Urgency]), args.Error(1)
}

func (m *MockEmojiMappingsService) UpsertEmojiMapping(
	ctx context.Context,
	userID, todayEmoji, tomorrowEmoji, laterEmoji string,
) (*models.EmojiMapping, error) {
	args := m.Called(ctx, userID, todayEmoji, tomorrowEmoji, laterEmoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmojiMapping), args.Error(1)
}
