package webhook

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reactodo/clients"
	"reactodo/core"
	"reactodo/models"
	"reactodo/services"
)

// WebhookUseCase orchestrates one inbound Slack reaction event from
// authorization through task materialization. It is safe for unbounded
// concurrent invocations; the only synchronization is the idempotency
// guard's insert-if-absent.
type WebhookUseCase struct {
	webhooksService        services.WebhooksService
	connectionsService     services.ConnectionsService
	emojiMappingsService   services.EmojiMappingsService
	processedEventsService services.ProcessedEventsService
	tasksService           services.TasksService
	slackClient            clients.SlackClient
	titleGenerator         clients.TitleGenerator
}

// NewWebhookUseCase creates a new instance of WebhookUseCase
func NewWebhookUseCase(
	webhooksService services.WebhooksService,
	connectionsService services.ConnectionsService,
	emojiMappingsService services.EmojiMappingsService,
	processedEventsService services.ProcessedEventsService,
	tasksService services.TasksService,
	slackClient clients.SlackClient,
	titleGenerator clients.TitleGenerator,
) *WebhookUseCase {
	return &WebhookUseCase{
		webhooksService:        webhooksService,
		connectionsService:     connectionsService,
		emojiMappingsService:   emojiMappingsService,
		processedEventsService: processedEventsService,
		tasksService:           tasksService,
		slackClient:            slackClient,
		titleGenerator:         titleGenerator,
	}
}

// ProcessReactionEvent runs the full pipeline for one reaction event and
// always returns a terminal outcome. Unexpected faults anywhere inside are
// caught here and normalized to a generic processing failure; they never
// escape as a raw panic or unclassified error.
func (u *WebhookUseCase) ProcessReactionEvent(
	ctx context.Context,
	webhookID string,
	event models.SlackReactionEvent,
) (outcome *models.PipelineOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while processing reaction event: %v", r)
			outcome = &models.PipelineOutcome{
				Kind:        models.PipelineOutcomeFailed,
				FailureKind: models.PipelineFailureInternal,
				Message:     "event processing failed",
			}
		}
	}()

	log.Printf("📨 Processing reaction %q on webhook %s", event.Reaction, webhookID)
	return u.processReactionEvent(ctx, webhookID, event)
}

func (u *WebhookUseCase) processReactionEvent(
	ctx context.Context,
	webhookID string,
	event models.SlackReactionEvent,
) *models.PipelineOutcome {
	// State: webhook-resolved / owner-verified / reaction-owner-matched
	authz, err := u.webhooksService.AuthorizeEvent(ctx, webhookID, event.ReactingUserID)
	if err != nil {
		return internalFailure(err)
	}

	switch authz.Status {
	case models.WebhookAuthorizationNotFound, models.WebhookAuthorizationInactive:
		return &models.PipelineOutcome{
			Kind:        models.PipelineOutcomeFailed,
			FailureKind: models.PipelineFailureWebhookNotFound,
			Message:     "webhook not found",
		}
	case models.WebhookAuthorizationOwnerNotConfigured:
		return &models.PipelineOutcome{
			Kind:        models.PipelineOutcomeFailed,
			FailureKind: models.PipelineFailureOwnerNotConfigured,
			Message:     "Slack user ID not configured",
		}
	case models.WebhookAuthorizationIgnored:
		// Someone else reacted in the channel. Success-shaped so Slack
		// does not trigger a retry storm.
		return &models.PipelineOutcome{Kind: models.PipelineOutcomeIgnored}
	}

	webhook := authz.Webhook

	// Delivery bookkeeping is best-effort; never fails the pipeline
	if err := u.webhooksService.RecordDelivery(ctx, webhook.ID); err != nil {
		log.Printf("⚠️ Failed to record delivery on webhook %s: %v", webhook.ID, err)
	}

	// State: deduplicated
	reservation, err := u.processedEventsService.ReserveEvent(ctx, webhook.ID, event.Key())
	if err != nil {
		return internalFailure(err)
	}
	if !reservation.Reserved {
		outcome := &models.PipelineOutcome{Kind: models.PipelineOutcomeAlreadyProcessed}
		if reservation.Event.TaskID != nil {
			outcome.TaskID = *reservation.Event.TaskID
		}
		return outcome
	}

	// State: emoji-resolved
	urgencyOpt, err := u.emojiMappingsService.ResolveUrgency(ctx, webhook.UserID, event.Reaction)
	if err != nil {
		return internalFailure(err)
	}
	if !urgencyOpt.IsPresent() {
		log.Printf("📋 Reaction %q matches no configured emoji, skipping", event.Reaction)
		return &models.PipelineOutcome{Kind: models.PipelineOutcomeNotConfigured}
	}
	urgency := urgencyOpt.MustGet()

	// State: message-fetched
	connectionOpt, err := u.connectionsService.GetSlackConnectionByID(ctx, webhook.ConnectionID)
	if err != nil {
		return internalFailure(err)
	}
	if !connectionOpt.IsPresent() {
		return internalFailure(fmt.Errorf("connection %s for webhook %s is missing", webhook.ConnectionID, webhook.ID))
	}
	connection := connectionOpt.MustGet()

	message, err := u.slackClient.GetMessage(ctx, connection.AccessToken, event.ChannelID, event.MessageTS)
	if err != nil {
		// The task body depends on the message, so fetch failure is hard
		log.Printf("❌ Failed to fetch message %s from channel %s: %v", event.MessageTS, event.ChannelID, err)
		return &models.PipelineOutcome{
			Kind:        models.PipelineOutcomeFailed,
			FailureKind: models.PipelineFailureExternalService,
			Message:     "failed to fetch message from Slack",
		}
	}

	// State: title-generated-or-fallback
	title, err := u.titleGenerator.GenerateTitle(ctx, message.Text)
	if err != nil {
		log.Printf("⚠️ Title generation failed, using fallback title: %v", err)
		title = ""
	}

	// State: task-materialized
	task, err := u.tasksService.MaterializeSlackTask(ctx, services.MaterializeTaskParams{
		UserID:      webhook.UserID,
		EventID:     reservation.Event.ID,
		Title:       title,
		MessageText: message.Text,
		Urgency:     urgency,
	})
	if err != nil {
		if task == nil {
			return internalFailure(err)
		}
		// Task exists but the processed-event link failed; a retry cannot
		// re-link it, so report success and keep the error in the logs
		log.Printf("⚠️ Task %s created but event link failed: %v", task.ID, err)
	}

	log.Printf("✅ Created task %s from reaction %q", task.ID, event.Reaction)
	return &models.PipelineOutcome{
		Kind:   models.PipelineOutcomeCreated,
		TaskID: task.ID,
	}
}

func internalFailure(err error) *models.PipelineOutcome {
	log.Printf("❌ Pipeline failure: %v", err)

	failureKind := models.PipelineFailureInternal
	var extErr *core.ExternalServiceError
	if errors.As(err, &extErr) {
		failureKind = models.PipelineFailureExternalService
	}

	// The triggering cause stays in the logs; callers only see the
	// generic message
	return &models.PipelineOutcome{
		Kind:        models.PipelineOutcomeFailed,
		FailureKind: failureKind,
		Message:     "event processing failed",
	}
}
