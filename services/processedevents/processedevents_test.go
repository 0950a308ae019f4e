package processedevents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
	"reactodo/services/users"
	"reactodo/testutils"
)

func setupProcessedEventsTest(t *testing.T) (*ProcessedEventsService, *models.Webhook) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })

	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	connectionsRepo := db.NewPostgresSlackConnectionsRepository(dbConn, cfg.DatabaseSchema)
	webhooksRepo := db.NewPostgresWebhooksRepository(dbConn, cfg.DatabaseSchema)
	processedEventsRepo := db.NewPostgresProcessedEventsRepository(dbConn, cfg.DatabaseSchema)

	usersService := users.NewUsersService(usersRepo)
	service := NewProcessedEventsService(processedEventsRepo)

	testUser := testutils.CreateTestUser(t, usersService)
	connection := testutils.CreateTestConnection(t, connectionsRepo, testUser.ID)
	webhook := testutils.CreateTestWebhook(t, webhooksRepo, testUser.ID, connection.ID)

	return service, webhook
}

func TestProcessedEventsService_ReserveEventOnce(t *testing.T) {
	service, webhook := setupProcessedEventsTest(t)
	ctx := context.Background()

	eventKey := models.EventKey("C12345678", "1700000000.000100", "fire", "U12345678")

	first, err := service.ReserveEvent(ctx, webhook.ID, eventKey)
	require.NoError(t, err)
	assert.True(t, first.Reserved)
	assert.Equal(t, eventKey, first.Event.EventKey)
	assert.Nil(t, first.Event.TaskID)

	// A duplicate delivery loses the reservation and sees the original record
	second, err := service.ReserveEvent(ctx, webhook.ID, eventKey)
	require.NoError(t, err)
	assert.False(t, second.Reserved)
	assert.Equal(t, first.Event.ID, second.Event.ID)
}

func TestProcessedEventsService_AttachTaskVisibleToDuplicates(t *testing.T) {
	service, webhook := setupProcessedEventsTest(t)
	ctx := context.Background()

	eventKey := models.EventKey("C12345678", "1700000000.000200", "hourglass", "U12345678")

	reservation, err := service.ReserveEvent(ctx, webhook.ID, eventKey)
	require.NoError(t, err)
	require.True(t, reservation.Reserved)

	taskID := core.NewID("task")
	require.NoError(t, service.AttachTask(ctx, reservation.Event.ID, taskID))

	duplicate, err := service.ReserveEvent(ctx, webhook.ID, eventKey)
	require.NoError(t, err)
	assert.False(t, duplicate.Reserved)
	require.NotNil(t, duplicate.Event.TaskID)
	assert.Equal(t, taskID, *duplicate.Event.TaskID)
}

func TestProcessedEventsService_DistinctKeysDoNotCollide(t *testing.T) {
	service, webhook := setupProcessedEventsTest(t)
	ctx := context.Background()

	base := models.SlackReactionEvent{
		Reaction:       "fire",
		ReactingUserID: "U12345678",
		ChannelID:      "C12345678",
		MessageTS:      "1700000000.000300",
	}

	differentReaction := base
	differentReaction.Reaction = "turtle"

	first, err := service.ReserveEvent(ctx, webhook.ID, base.Key())
	require.NoError(t, err)
	assert.True(t, first.Reserved)

	// Same message, different reaction is a different event
	second, err := service.ReserveEvent(ctx, webhook.ID, differentReaction.Key())
	require.NoError(t, err)
	assert.True(t, second.Reserved)
}
