package emojimappings

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

func TestValidateSelection_AllViolationsReported(t *testing.T) {
	err := validateSelection("", "pizza", "turtle")

	validationErr, ok := core.AsValidationError(err)
	require.True(t, ok, "expected a validation error, got: %v", err)
	assert.Contains(t, validationErr.Violations, "today emoji cannot be empty")
	assert.Contains(t, validationErr.Violations, `tomorrow emoji "pizza" is not in the allowed list`)
	assert.Len(t, validationErr.Violations, 2)
}

func TestValidateSelection_RejectsDuplicates(t *testing.T) {
	err := validateSelection("fire", "fire", "fire")

	validationErr, ok := core.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validationErr.Violations, "today and tomorrow emoji must be distinct")
	assert.Contains(t, validationErr.Violations, "today and later emoji must be distinct")
	assert.Contains(t, validationErr.Violations, "tomorrow and later emoji must be distinct")
}

func TestValidateSelection_AcceptsDefaultSelection(t *testing.T) {
	assert.NoError(t, validateSelection("fire", "hourglass", "turtle"))
}

func TestEmojiMappingsService_DefaultsAndResolution(t *testing.T) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	defer dbConn.Close()

	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	usersService := users.NewUsersService(usersRepo)
	emojiMappingsRepo := db.NewPostgresEmojiMappingsRepository(dbConn, cfg.DatabaseSchema)
	service := NewEmojiMappingsService(emojiMappingsRepo)

	testUser := testutils.CreateTestUser(t, usersService)
	ctx := context.Background()

	// No stored mapping resolves to the defaults
	mapping, err := service.GetEffectiveMapping(ctx, testUser.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEmojiMapping.TodayEmoji, mapping.TodayEmoji)
	assert.Equal(t, models.DefaultEmojiMapping.TomorrowEmoji, mapping.TomorrowEmoji)
	assert.Equal(t, models.DefaultEmojiMapping.LaterEmoji, mapping.LaterEmoji)
	assert.Equal(t, testUser.ID, mapping.UserID)

	urgency, err := service.ResolveUrgency(ctx, testUser.ID, "fire")
	require.NoError(t, err)
	require.True(t, urgency.IsPresent())
	assert.Equal(t, models.UrgencyToday, urgency.MustGet())

	// A stored mapping overrides the defaults for every bucket
	_, err = service.UpsertEmojiMapping(ctx, testUser.ID, "rotating_light", "calendar", "bookmark")
	require.NoError(t, err)

	for reaction, want := range map[string]models.Urgency{
		"rotating_light": models.UrgencyToday,
		"calendar":       models.UrgencyTomorrow,
		"bookmark":       models.UrgencyLater,
	} {
		urgency, err := service.ResolveUrgency(ctx, testUser.ID, reaction)
		require.NoError(t, err)
		require.True(t, urgency.IsPresent(), "reaction %s should resolve", reaction)
		assert.Equal(t, want, urgency.MustGet())
	}

	// The previous default no longer matches anything
	urgency, err = service.ResolveUrgency(ctx, testUser.ID, "fire")
	require.NoError(t, err)
	assert.False(t, urgency.IsPresent())

	// Unknown reactions never match
	urgency, err = service.ResolveUrgency(ctx, testUser.ID, "thumbsup")
	require.NoError(t, err)
	assert.False(t, urgency.IsPresent())
}

func TestEmojiMappingsService_MalformedStoredMappingFallsBackToDefaults(t *testing.T) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	defer dbConn.Close()

	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	usersService := users.NewUsersService(usersRepo)
	emojiMappingsRepo := db.NewPostgresEmojiMappingsRepository(dbConn, cfg.DatabaseSchema)
	service := NewEmojiMappingsService(emojiMappingsRepo)

	testUser := testutils.CreateTestUser(t, usersService)
	ctx := context.Background()

	// Write broken rows straight through the repo, as an older writer or a
	// manual edit could have left them
	for _, stored := range []models.EmojiMapping{
		{TodayEmoji: "pizza", TomorrowEmoji: "calendar", LaterEmoji: "bookmark"},
		{TodayEmoji: "fire", TomorrowEmoji: "fire", LaterEmoji: "bookmark"},
		{TodayEmoji: "", TomorrowEmoji: "", LaterEmoji: ""},
	} {
		stored.ID = core.NewID("em")
		stored.UserID = testUser.ID
		require.NoError(t, emojiMappingsRepo.UpsertEmojiMapping(ctx, &stored))

		mapping, err := service.GetEffectiveMapping(ctx, testUser.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultEmojiMapping.TodayEmoji, mapping.TodayEmoji)
		assert.Equal(t, models.DefaultEmojiMapping.TomorrowEmoji, mapping.TomorrowEmoji)
		assert.Equal(t, models.DefaultEmojiMapping.LaterEmoji, mapping.LaterEmoji)

		// Resolution uses the defaults too, not the stored garbage
		urgency, err := service.ResolveUrgency(ctx, testUser.ID, "pizza")
		require.NoError(t, err)
		assert.False(t, urgency.IsPresent())

		urgency, err = service.ResolveUrgency(ctx, testUser.ID, models.DefaultEmojiMapping.TodayEmoji)
		require.NoError(t, err)
		require.True(t, urgency.IsPresent())
		assert.Equal(t, models.UrgencyToday, urgency.MustGet())
	}
}

func TestEmojiMappingsService_UpsertRejectsInvalidSelection(t *testing.T) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	defer dbConn.Close()

	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	usersService := users.NewUsersService(usersRepo)
	emojiMappingsRepo := db.NewPostgresEmojiMappingsRepository(dbConn, cfg.DatabaseSchema)
	service := NewEmojiMappingsService(emojiMappingsRepo)

	testUser := testutils.CreateTestUser(t, usersService)

	mapping, err := service.UpsertEmojiMapping(context.Background(), testUser.ID, "fire", "fire", "pizza")
	assert.Nil(t, mapping)

	validationErr, ok := core.AsValidationError(err)
	require.True(t, ok)
	assert.NotEmpty(t, validationErr.Violations)
}
