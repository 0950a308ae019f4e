package webhook

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reactodo/clients"
	anthropicclient "reactodo/clients/anthropic"
	slackclient "reactodo/clients/slack"
	"reactodo/models"
	"reactodo/services"
	"reactodo/services/connections"
	"reactodo/services/emojimappings"
	"reactodo/services/processedevents"
	"reactodo/services/tasks"
	"reactodo/services/webhooks"
)

type usecaseMocks struct {
	webhooksService        *webhooks.MockWebhooksService
	connectionsService     *connections.MockConnectionsService
	emojiMappingsService   *emojimappings.MockEmojiMappingsService
	processedEventsService *processedevents.MockProcessedEventsService
	tasksService           *tasks.MockTasksService
	slackClient            *slackclient.MockSlackClient
	titleGenerator         *anthropicclient.MockTitleGenerator
}

func newTestUseCase() (*WebhookUseCase, *usecaseMocks) {
	m := &usecaseMocks{
		webhooksService:        new(webhooks.MockWebhooksService),
		connectionsService:     new(connections.MockConnectionsService),
		emojiMappingsService:   new(emojimappings.MockEmojiMappingsService),
		processedEventsService: new(processedevents.MockProcessedEventsService),
		tasksService:           new(tasks.MockTasksService),
		slackClient:            new(slackclient.MockSlackClient),
		titleGenerator:         new(anthropicclient.MockTitleGenerator),
	}
	uc := NewWebhookUseCase(
		m.webhooksService,
		m.connectionsService,
		m.emojiMappingsService,
		m.processedEventsService,
		m.tasksService,
		m.slackClient,
		m.titleGenerator,
	)
	return uc, m
}

func testReactionEvent() models.SlackReactionEvent {
	return models.SlackReactionEvent{
		Reaction:       "fire",
		ReactingUserID: "U12345678",
		ChannelID:      "C12345678",
		MessageTS:      "1700000000.000100",
	}
}

func testWebhook() *models.Webhook {
	return &models.Webhook{
		ID:           "wh_test",
		ConnectionID: "conn_test",
		UserID:       "u_test",
		IsActive:     true,
	}
}

func TestProcessReactionEvent_Created(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()
	webhook := testWebhook()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: webhook,
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").Return(nil)
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: true,
			Event:    &models.ProcessedEvent{ID: "pe_test", EventKey: event.Key()},
		}, nil)
	m.emojiMappingsService.On("ResolveUrgency", mock.Anything, "u_test", "fire").
		Return(mo.Some(models.UrgencyToday), nil)
	m.connectionsService.On("GetSlackConnectionByID", mock.Anything, "conn_test").
		Return(mo.Some(&models.SlackConnection{ID: "conn_test", AccessToken: "xoxp-token"}), nil)
	m.slackClient.On("GetMessage", mock.Anything, "xoxp-token", "C12345678", "1700000000.000100").
		Return(&clients.SlackMessage{Text: "ship the release tomorrow"}, nil)
	m.titleGenerator.On("GenerateTitle", mock.Anything, "ship the release tomorrow").
		Return("Ship the release", nil)
	m.tasksService.On("MaterializeSlackTask", mock.Anything, services.MaterializeTaskParams{
		UserID:      "u_test",
		EventID:     "pe_test",
		Title:       "Ship the release",
		MessageText: "ship the release tomorrow",
		Urgency:     models.UrgencyToday,
	}).Return(&models.Task{ID: "task_test"}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeCreated, outcome.Kind)
	assert.Equal(t, "task_test", outcome.TaskID)
	m.tasksService.AssertExpectations(t)
}

func TestProcessReactionEvent_WebhookNotFound(t *testing.T) {
	uc, m := newTestUseCase()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_missing", "U12345678").
		Return(&models.WebhookAuthorization{Status: models.WebhookAuthorizationNotFound}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_missing", testReactionEvent())

	assert.Equal(t, models.PipelineOutcomeFailed, outcome.Kind)
	assert.Equal(t, models.PipelineFailureWebhookNotFound, outcome.FailureKind)
	m.processedEventsService.AssertNotCalled(t, "ReserveEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessReactionEvent_InactiveWebhookTreatedAsNotFound(t *testing.T) {
	uc, m := newTestUseCase()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{Status: models.WebhookAuthorizationInactive}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", testReactionEvent())

	assert.Equal(t, models.PipelineOutcomeFailed, outcome.Kind)
	assert.Equal(t, models.PipelineFailureWebhookNotFound, outcome.FailureKind)
}

func TestProcessReactionEvent_OwnerNotConfigured(t *testing.T) {
	uc, m := newTestUseCase()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{Status: models.WebhookAuthorizationOwnerNotConfigured}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", testReactionEvent())

	assert.Equal(t, models.PipelineOutcomeFailed, outcome.Kind)
	assert.Equal(t, models.PipelineFailureOwnerNotConfigured, outcome.FailureKind)
}

func TestProcessReactionEvent_IgnoredForOtherReactors(t *testing.T) {
	uc, m := newTestUseCase()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{Status: models.WebhookAuthorizationIgnored}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", testReactionEvent())

	assert.Equal(t, models.PipelineOutcomeIgnored, outcome.Kind)
	m.tasksService.AssertNotCalled(t, "MaterializeSlackTask", mock.Anything, mock.Anything)
	m.processedEventsService.AssertNotCalled(t, "ReserveEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessReactionEvent_AlreadyProcessed(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()
	priorTaskID := "task_prior"

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: testWebhook(),
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").Return(nil)
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: false,
			Event:    &models.ProcessedEvent{ID: "pe_prior", TaskID: &priorTaskID},
		}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeAlreadyProcessed, outcome.Kind)
	assert.Equal(t, "task_prior", outcome.TaskID)
	m.tasksService.AssertNotCalled(t, "MaterializeSlackTask", mock.Anything, mock.Anything)
	m.slackClient.AssertNotCalled(t, "GetMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessReactionEvent_UnmappedEmojiNotConfigured(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()
	event.Reaction = "thumbsup"

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: testWebhook(),
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").Return(nil)
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: true,
			Event:    &models.ProcessedEvent{ID: "pe_test"},
		}, nil)
	m.emojiMappingsService.On("ResolveUrgency", mock.Anything, "u_test", "thumbsup").
		Return(mo.None[models.Urgency](), nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeNotConfigured, outcome.Kind)
	m.tasksService.AssertNotCalled(t, "MaterializeSlackTask", mock.Anything, mock.Anything)
}

func TestProcessReactionEvent_EventLinkFailureStillReportsCreated(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()
	webhook := testWebhook()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: webhook,
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").Return(nil)
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: true,
			Event:    &models.ProcessedEvent{ID: "pe_test", EventKey: event.Key()},
		}, nil)
	m.emojiMappingsService.On("ResolveUrgency", mock.Anything, "u_test", "fire").
		Return(mo.Some(models.UrgencyToday), nil)
	m.connectionsService.On("GetSlackConnectionByID", mock.Anything, "conn_test").
		Return(mo.Some(&models.SlackConnection{ID: "conn_test", AccessToken: "xoxp-token"}), nil)
	m.slackClient.On("GetMessage", mock.Anything, "xoxp-token", "C12345678", "1700000000.000100").
		Return(&clients.SlackMessage{Text: "ship the release tomorrow"}, nil)
	m.titleGenerator.On("GenerateTitle", mock.Anything, "ship the release tomorrow").
		Return("Ship the release", nil)

	// Task persisted but the processed-event link write failed. The task
	// exists and a retry is blocked by the reservation, so the delivery
	// still counts as created.
	m.tasksService.On("MaterializeSlackTask", mock.Anything, mock.AnythingOfType("services.MaterializeTaskParams")).
		Return(&models.Task{ID: "task_test"}, fmt.Errorf("failed to attach task to processed event"))

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeCreated, outcome.Kind)
	assert.Equal(t, "task_test", outcome.TaskID)
}

func TestProcessReactionEvent_MessageFetchFailure(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: testWebhook(),
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").Return(nil)
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: true,
			Event:    &models.ProcessedEvent{ID: "pe_test"},
		}, nil)
	m.emojiMappingsService.On("ResolveUrgency", mock.Anything, "u_test", "fire").
		Return(mo.Some(models.UrgencyToday), nil)
	m.connectionsService.On("GetSlackConnectionByID", mock.Anything, "conn_test").
		Return(mo.Some(&models.SlackConnection{ID: "conn_test", AccessToken: "xoxp-token"}), nil)
	m.slackClient.On("GetMessage", mock.Anything, "xoxp-token", "C12345678", "1700000000.000100").
		Return(nil, fmt.Errorf("slack API unavailable"))

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeFailed, outcome.Kind)
	assert.Equal(t, models.PipelineFailureExternalService, outcome.FailureKind)
	m.tasksService.AssertNotCalled(t, "MaterializeSlackTask", mock.Anything, mock.Anything)
}

func TestProcessReactionEvent_TitleGenerationFailureUsesFallback(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: testWebhook(),
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").Return(nil)
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: true,
			Event:    &models.ProcessedEvent{ID: "pe_test"},
		}, nil)
	m.emojiMappingsService.On("ResolveUrgency", mock.Anything, "u_test", "fire").
		Return(mo.Some(models.UrgencyToday), nil)
	m.connectionsService.On("GetSlackConnectionByID", mock.Anything, "conn_test").
		Return(mo.Some(&models.SlackConnection{ID: "conn_test", AccessToken: "xoxp-token"}), nil)
	m.slackClient.On("GetMessage", mock.Anything, "xoxp-token", "C12345678", "1700000000.000100").
		Return(&clients.SlackMessage{Text: "some message"}, nil)
	m.titleGenerator.On("GenerateTitle", mock.Anything, "some message").
		Return("", fmt.Errorf("model overloaded"))
	m.tasksService.On("MaterializeSlackTask", mock.Anything, mock.MatchedBy(func(p services.MaterializeTaskParams) bool {
		return p.Title == "" && p.MessageText == "some message"
	})).Return(&models.Task{ID: "task_fallback"}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeCreated, outcome.Kind)
	assert.Equal(t, "task_fallback", outcome.TaskID)
}

func TestProcessReactionEvent_RecordDeliveryFailureDoesNotFailPipeline(t *testing.T) {
	uc, m := newTestUseCase()
	event := testReactionEvent()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(&models.WebhookAuthorization{
			Status:  models.WebhookAuthorizationAuthorized,
			Webhook: testWebhook(),
		}, nil)
	m.webhooksService.On("RecordDelivery", mock.Anything, "wh_test").
		Return(fmt.Errorf("db timeout"))
	m.processedEventsService.On("ReserveEvent", mock.Anything, "wh_test", event.Key()).
		Return(&services.EventReservation{
			Reserved: true,
			Event:    &models.ProcessedEvent{ID: "pe_test"},
		}, nil)
	m.emojiMappingsService.On("ResolveUrgency", mock.Anything, "u_test", "fire").
		Return(mo.Some(models.UrgencyToday), nil)
	m.connectionsService.On("GetSlackConnectionByID", mock.Anything, "conn_test").
		Return(mo.Some(&models.SlackConnection{ID: "conn_test", AccessToken: "xoxp-token"}), nil)
	m.slackClient.On("GetMessage", mock.Anything, "xoxp-token", "C12345678", "1700000000.000100").
		Return(&clients.SlackMessage{Text: "msg"}, nil)
	m.titleGenerator.On("GenerateTitle", mock.Anything, "msg").Return("Title", nil)
	m.tasksService.On("MaterializeSlackTask", mock.Anything, mock.Anything).
		Return(&models.Task{ID: "task_test"}, nil)

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", event)

	assert.Equal(t, models.PipelineOutcomeCreated, outcome.Kind)
}

func TestProcessReactionEvent_AuthorizationErrorIsInternalFailure(t *testing.T) {
	uc, m := newTestUseCase()

	m.webhooksService.On("AuthorizeEvent", mock.Anything, "wh_test", "U12345678").
		Return(nil, fmt.Errorf("db down"))

	outcome := uc.ProcessReactionEvent(context.Background(), "wh_test", testReactionEvent())

	assert.Equal(t, models.PipelineOutcomeFailed, outcome.Kind)
	assert.Equal(t, models.PipelineFailureInternal, outcome.FailureKind)
}
