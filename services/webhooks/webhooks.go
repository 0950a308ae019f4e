package webhooks

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
)

type WebhooksService struct {
	webhooksRepo      *db.PostgresWebhooksRepository
	slackProfilesRepo *db.PostgresSlackProfilesRepository
	appBaseURL        string
}

func NewWebhooksService(
	webhooksRepo *db.PostgresWebhooksRepository,
	slackProfilesRepo *db.PostgresSlackProfilesRepository,
	appBaseURL string,
) *WebhooksService {
	return &WebhooksService{
		webhooksRepo:      webhooksRepo,
		slackProfilesRepo: slackProfilesRepo,
		appBaseURL:        appBaseURL,
	}
}

// EnsureWebhook creates the webhook for a connection, or reactivates the
// existing one. Re-requesting creation never duplicates.
func (s *WebhooksService) EnsureWebhook(
	ctx context.Context,
	userID, connectionID string,
) (*models.Webhook, error) {
	log.Printf("📋 Starting to ensure webhook for connection: %s", connectionID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}
	if !core.IsValidULID(connectionID) {
		return nil, fmt.Errorf("connection ID must be a valid ULID")
	}

	existingOpt, err := s.webhooksRepo.GetWebhookByConnectionID(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing webhook: %w", err)
	}

	if existingOpt.IsPresent() {
		existing := existingOpt.MustGet()
		if existing.UserID != userID {
			return nil, core.ErrUnauthorized
		}
		if existing.IsActive {
			log.Printf("📋 Completed successfully - webhook %s already active", existing.ID)
			return existing, nil
		}
		reactivated, err := s.webhooksRepo.SetWebhookActive(ctx, existing.ID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to reactivate webhook: %w", err)
		}
		log.Printf("📋 Completed successfully - reactivated webhook %s", reactivated.ID)
		return reactivated, nil
	}

	secret, err := core.NewSecretKey("whsec")
	if err != nil {
		return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
	}

	webhook := &models.Webhook{
		ID:           core.NewID("wh"),
		Secret:       secret,
		ConnectionID: connectionID,
		UserID:       userID,
		IsActive:     true,
	}
	if err := s.webhooksRepo.CreateWebhook(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}

	log.Printf("📋 Completed successfully - created webhook %s for connection: %s", webhook.ID, connectionID)
	return webhook, nil
}

func (s *WebhooksService) GetWebhookByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Webhook], error) {
	log.Printf("📋 Starting to get webhook by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Webhook](), fmt.Errorf("webhook ID must be a valid ULID")
	}

	webhookOpt, err := s.webhooksRepo.GetWebhookByID(ctx, id)
	if err != nil {
		return mo.None[*models.Webhook](), fmt.Errorf("failed to get webhook by ID: %w", err)
	}

	log.Printf("📋 Completed successfully - webhook lookup for: %s", id)
	return webhookOpt, nil
}

func (s *WebhooksService) GetWebhookByConnectionID(
	ctx context.Context,
	connectionID string,
) (mo.Option[*models.Webhook], error) {
	log.Printf("📋 Starting to get webhook by connection ID: %s", connectionID)
	if !core.IsValidULID(connectionID) {
		return mo.None[*models.Webhook](), fmt.Errorf("connection ID must be a valid ULID")
	}

	webhookOpt, err := s.webhooksRepo.GetWebhookByConnectionID(ctx, connectionID)
	if err != nil {
		return mo.None[*models.Webhook](), fmt.Errorf("failed to get webhook by connection ID: %w", err)
	}

	log.Printf("📋 Completed successfully - webhook lookup for connection: %s", connectionID)
	return webhookOpt, nil
}

// DeactivateWebhooksByConnectionID flips the connection's webhook inactive,
// keeping the registration (and its event history) around for reactivation.
func (s *WebhooksService) DeactivateWebhooksByConnectionID(ctx context.Context, connectionID string) error {
	log.Printf("📋 Starting to deactivate webhooks for connection: %s", connectionID)
	webhookOpt, err := s.webhooksRepo.GetWebhookByConnectionID(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("failed to get webhook by connection ID: %w", err)
	}
	if !webhookOpt.IsPresent() {
		log.Printf("📋 Completed successfully - no webhook registered for connection: %s", connectionID)
		return nil
	}

	if _, err := s.webhooksRepo.SetWebhookActive(ctx, webhookOpt.MustGet().ID, false); err != nil {
		return fmt.Errorf("failed to deactivate webhook: %w", err)
	}

	log.Printf("📋 Completed successfully - deactivated webhook for connection: %s", connectionID)
	return nil
}

// WebhookURL builds the externally exposed events URL for a webhook ID.
func (s *WebhooksService) WebhookURL(webhookID string) string {
	return models.WebhookURL(s.appBaseURL, webhookID)
}

// AuthorizeEvent checks webhook liveness and enforces that only the webhook
// owner's own reactions trigger task creation.
func (s *WebhooksService) AuthorizeEvent(
	ctx context.Context,
	webhookID, reactingSlackUserID string,
) (*models.WebhookAuthorization, error) {
	log.Printf("📋 Starting to authorize event on webhook: %s", webhookID)

	// A malformed ID can never match a stored webhook, so treat it the same
	// as an unknown one instead of surfacing a repo validation error.
	if !core.IsValidULID(webhookID) {
		log.Printf("📋 Completed successfully - webhook ID malformed: %s", webhookID)
		return &models.WebhookAuthorization{Status: models.WebhookAuthorizationNotFound}, nil
	}

	webhookOpt, err := s.webhooksRepo.GetWebhookByID(ctx, webhookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook by ID: %w", err)
	}
	if !webhookOpt.IsPresent() {
		log.Printf("📋 Completed successfully - webhook not found: %s", webhookID)
		return &models.WebhookAuthorization{Status: models.WebhookAuthorizationNotFound}, nil
	}

	webhook := webhookOpt.MustGet()
	if !webhook.IsActive {
		log.Printf("📋 Completed successfully - webhook inactive: %s", webhookID)
		return &models.WebhookAuthorization{Status: models.WebhookAuthorizationInactive, Webhook: webhook}, nil
	}

	profileOpt, err := s.slackProfilesRepo.GetSlackProfileByUserID(ctx, webhook.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slack profile for webhook owner: %w", err)
	}
	if !profileOpt.IsPresent() || profileOpt.MustGet().SlackUserID == nil || *profileOpt.MustGet().SlackUserID == "" {
		log.Printf("📋 Completed successfully - webhook owner has no Slack user ID configured: %s", webhook.UserID)
		return &models.WebhookAuthorization{Status: models.WebhookAuthorizationOwnerNotConfigured, Webhook: webhook}, nil
	}

	if *profileOpt.MustGet().SlackUserID != reactingSlackUserID {
		log.Printf("📋 Completed successfully - reaction from non-owner %s, ignoring", reactingSlackUserID)
		return &models.WebhookAuthorization{Status: models.WebhookAuthorizationIgnored, Webhook: webhook}, nil
	}

	log.Printf("📋 Completed successfully - event authorized on webhook: %s", webhookID)
	return &models.WebhookAuthorization{Status: models.WebhookAuthorizationAuthorized, Webhook: webhook}, nil
}

// RecordDelivery bumps the webhook's event bookkeeping for an authorized
// delivery.
func (s *WebhooksService) RecordDelivery(ctx context.Context, webhookID string) error {
	if err := s.webhooksRepo.RecordWebhookEvent(ctx, webhookID); err != nil {
		return fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	return nil
}
