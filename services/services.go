package services

import (
	"context"

	"github.com/samber/mo"

	"reactodo/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error)
}

// ConnectionsService defines the interface for Slack workspace connection
// lifecycle operations
type ConnectionsService interface {
	CreateSlackConnection(
		ctx context.Context,
		userID, slackAuthCode, redirectURL string,
	) (*models.SlackConnection, error)
	GetSlackConnectionsByUserID(ctx context.Context, userID string) ([]*models.SlackConnection, error)
	GetSlackConnectionByID(ctx context.Context, id string) (mo.Option[*models.SlackConnection], error)
	DisconnectSlackConnection(ctx context.Context, userID, connectionID string) error
}

// WebhooksService defines the interface for webhook registration and
// event authorization operations
type WebhooksService interface {
	EnsureWebhook(ctx context.Context, userID, connectionID string) (*models.Webhook, error)
	GetWebhookByID(ctx context.Context, id string) (mo.Option[*models.Webhook], error)
	GetWebhookByConnectionID(ctx context.Context, connectionID string) (mo.Option[*models.Webhook], error)
	DeactivateWebhooksByConnectionID(ctx context.Context, connectionID string) error
	WebhookURL(webhookID string) string
	AuthorizeEvent(ctx context.Context, webhookID, reactingSlackUserID string) (*models.WebhookAuthorization, error)
	RecordDelivery(ctx context.Context, webhookID string) error
}

// EmojiMappingsService defines the interface for per-user emoji-to-urgency
// configuration
type EmojiMappingsService interface {
	GetEffectiveMapping(ctx context.Context, userID string) (*models.EmojiMapping, error)
	ResolveUrgency(ctx context.Context, userID, reaction string) (mo.Option[models.Urgency], error)
	UpsertEmojiMapping(
		ctx context.Context,
		userID, todayEmoji, tomorrowEmoji, laterEmoji string,
	) (*models.EmojiMapping, error)
}

// EventReservation is the result of an idempotency check-and-reserve.
type EventReservation struct {
	// Reserved is true when this caller won the insert and may proceed to
	// task creation.
	Reserved bool
	// Event is the reserved row, or the previously recorded one when
	// Reserved is false.
	Event *models.ProcessedEvent
}

// ProcessedEventsService defines the interface for the idempotency guard
type ProcessedEventsService interface {
	ReserveEvent(ctx context.Context, webhookID, eventKey string) (*EventReservation, error)
	AttachTask(ctx context.Context, eventID, taskID string) error
}

// SlackProfilesService defines the interface for user Slack identity
// configuration
type SlackProfilesService interface {
	GetSlackProfileByUserID(ctx context.Context, userID string) (mo.Option[*models.UserSlackProfile], error)
	UpsertSlackProfile(
		ctx context.Context,
		userID string,
		slackUserID *string,
		notificationsEnabled bool,
	) (*models.UserSlackProfile, error)
	ClearSlackUserID(ctx context.Context, userID string) error
}

// MaterializeTaskParams carries everything needed to turn a reaction event
// into a persisted task.
type MaterializeTaskParams struct {
	UserID      string
	EventID     string
	Title       string
	MessageText string
	Urgency     models.Urgency
}

// TasksService defines the interface for task materialization
type TasksService interface {
	// MaterializeSlackTask persists the task and links it to the processed
	// event. When linking fails after the task was created, the task is
	// returned alongside the error so callers can report the partial state.
	MaterializeSlackTask(ctx context.Context, params MaterializeTaskParams) (*models.Task, error)
	GetTaskByID(ctx context.Context, id string) (mo.Option[*models.Task], error)
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
