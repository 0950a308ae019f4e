package slackprofiles

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
)

type SlackProfilesService struct {
	slackProfilesRepo *db.PostgresSlackProfilesRepository
}

func NewSlackProfilesService(repo *db.PostgresSlackProfilesRepository) *SlackProfilesService {
	return &SlackProfilesService{slackProfilesRepo: repo}
}

func (s *SlackProfilesService) GetSlackProfileByUserID(
	ctx context.Context,
	userID string,
) (mo.Option[*models.UserSlackProfile], error) {
	log.Printf("📋 Starting to get slack profile for user: %s", userID)
	if !core.IsValidULID(userID) {
		return mo.None[*models.UserSlackProfile](), fmt.Errorf("user ID must be a valid ULID")
	}

	profileOpt, err := s.slackProfilesRepo.GetSlackProfileByUserID(ctx, userID)
	if err != nil {
		return mo.None[*models.UserSlackProfile](), fmt.Errorf("failed to get slack profile: %w", err)
	}

	log.Printf("📋 Completed successfully - slack profile lookup for user: %s", userID)
	return profileOpt, nil
}

func (s *SlackProfilesService) UpsertSlackProfile(
	ctx context.Context,
	userID string,
	slackUserID *string,
	notificationsEnabled bool,
) (*models.UserSlackProfile, error) {
	log.Printf("📋 Starting to upsert slack profile for user: %s", userID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	if slackUserID != nil && *slackUserID != "" && !models.IsValidSlackUserID(*slackUserID) {
		return nil, core.NewValidationError([]string{
			fmt.Sprintf("slack user ID has invalid format: %s", *slackUserID),
		})
	}

	profile := &models.UserSlackProfile{
		ID:                   core.NewID("sp"),
		UserID:               userID,
		SlackUserID:          slackUserID,
		NotificationsEnabled: notificationsEnabled,
	}
	if err := s.slackProfilesRepo.UpsertSlackProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert slack profile: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted slack profile for user: %s", userID)
	return profile, nil
}

func (s *SlackProfilesService) ClearSlackUserID(ctx context.Context, userID string) error {
	log.Printf("📋 Starting to clear slack user ID for user: %s", userID)
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}

	if err := s.slackProfilesRepo.ClearSlackUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear slack user ID: %w", err)
	}

	log.Printf("📋 Completed successfully - cleared slack user ID for user: %s", userID)
	return nil
}
