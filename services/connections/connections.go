package connections

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/samber/mo"

	"reactodo/clients"
	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
	"reactodo/services"
)

// PartialDisconnectError reports a disconnect where the connection and its
// webhooks were removed but a dependent cleanup step failed. Callers can
// retry the cleanup without re-running the whole disconnect.
type PartialDisconnectError struct {
	Step string
	Err  error
}

func (e *PartialDisconnectError) Error() string {
	return fmt.Sprintf("disconnect partially failed at step %q: %v", e.Step, e.Err)
}

func (e *PartialDisconnectError) Unwrap() error {
	return e.Err
}

type ConnectionsService struct {
	connectionsRepo   *db.PostgresSlackConnectionsRepository
	webhooksRepo      *db.PostgresWebhooksRepository
	slackProfilesRepo *db.PostgresSlackProfilesRepository
	txManager         services.TransactionManager
	slackClient       clients.SlackClient
	slackClientID     string
	slackClientSecret string
}

func NewConnectionsService(
	connectionsRepo *db.PostgresSlackConnectionsRepository,
	webhooksRepo *db.PostgresWebhooksRepository,
	slackProfilesRepo *db.PostgresSlackProfilesRepository,
	txManager services.TransactionManager,
	slackClient clients.SlackClient,
	slackClientID, slackClientSecret string,
) *ConnectionsService {
	return &ConnectionsService{
		connectionsRepo:   connectionsRepo,
		webhooksRepo:      webhooksRepo,
		slackProfilesRepo: slackProfilesRepo,
		txManager:         txManager,
		slackClient:       slackClient,
		slackClientID:     slackClientID,
		slackClientSecret: slackClientSecret,
	}
}

// CreateSlackConnection exchanges an OAuth code, validates the payload and
// upserts the connection keyed by (userID, workspace). Re-connecting the same
// workspace updates rather than duplicates.
func (s *ConnectionsService) CreateSlackConnection(
	ctx context.Context,
	userID, slackAuthCode, redirectURL string,
) (*models.SlackConnection, error) {
	log.Printf("📋 Starting to create Slack connection for user: %s", userID)
	if slackAuthCode == "" {
		return nil, fmt.Errorf("slack auth code cannot be empty")
	}
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	payload, err := s.slackClient.GetOAuthV2Response(
		&http.Client{},
		s.slackClientID,
		s.slackClientSecret,
		slackAuthCode,
		redirectURL,
	)
	if err != nil {
		return nil, &core.ExternalServiceError{Service: "slack oauth", Err: err}
	}

	connection, err := ValidateOAuthPayload(payload)
	if err != nil {
		log.Printf("❌ OAuth payload failed validation: %v (payload: %+v)", err, payload.Masked())
		return nil, err
	}

	connection.ID = core.NewID("conn")
	connection.UserID = userID

	if err := s.connectionsRepo.UpsertSlackConnection(ctx, connection); err != nil {
		return nil, fmt.Errorf("failed to upsert slack connection: %w", err)
	}

	if !connection.HasBasicScopes() {
		log.Printf("⚠️ Connection %s is missing baseline scopes, message access will fail", connection.ID)
	}

	log.Printf("📋 Completed successfully - created Slack connection %s for workspace: %s", connection.ID, connection.SlackTeamName)
	return connection, nil
}

func (s *ConnectionsService) GetSlackConnectionsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SlackConnection, error) {
	log.Printf("📋 Starting to get Slack connections for user: %s", userID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	connections, err := s.connectionsRepo.GetSlackConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slack connections for user: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d Slack connections for user: %s", len(connections), userID)
	return connections, nil
}

func (s *ConnectionsService) GetSlackConnectionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.SlackConnection], error) {
	log.Printf("📋 Starting to get Slack connection by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.SlackConnection](), fmt.Errorf("connection ID must be a valid ULID")
	}

	connectionOpt, err := s.connectionsRepo.GetSlackConnectionByID(ctx, id)
	if err != nil {
		return mo.None[*models.SlackConnection](), fmt.Errorf("failed to get slack connection by ID: %w", err)
	}

	if !connectionOpt.IsPresent() {
		log.Printf("📋 Completed successfully - slack connection not found")
		return mo.None[*models.SlackConnection](), nil
	}

	connection := connectionOpt.MustGet()
	log.Printf("📋 Completed successfully - found slack connection for workspace: %s", connection.SlackTeamName)
	return mo.Some(connection), nil
}

// DisconnectSlackConnection verifies ownership, removes the connection and
// all dependent webhooks in one logical operation, then independently clears
// the user's stored Slack user ID.
func (s *ConnectionsService) DisconnectSlackConnection(
	ctx context.Context,
	userID, connectionID string,
) error {
	log.Printf("📋 Starting to disconnect Slack connection: %s", connectionID)
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}
	if !core.IsValidULID(connectionID) {
		return fmt.Errorf("connection ID must be a valid ULID")
	}

	connectionOpt, err := s.connectionsRepo.GetSlackConnectionByID(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("failed to get slack connection: %w", err)
	}
	if !connectionOpt.IsPresent() {
		return core.ErrNotFound
	}
	if connectionOpt.MustGet().UserID != userID {
		log.Printf("❌ User %s attempted to disconnect connection %s owned by someone else", userID, connectionID)
		return core.ErrUnauthorized
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.webhooksRepo.DeleteWebhooksByConnectionID(txCtx, connectionID); err != nil {
			return fmt.Errorf("failed to delete webhooks: %w", err)
		}
		if err := s.connectionsRepo.DeleteSlackConnectionByID(txCtx, connectionID, userID); err != nil {
			return fmt.Errorf("failed to delete connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to disconnect slack connection: %w", err)
	}

	// The connection is gone at this point; a failure clearing the profile
	// is a partial disconnect, distinct from the total failure above.
	if err := s.slackProfilesRepo.ClearSlackUserID(ctx, userID); err != nil {
		return &PartialDisconnectError{Step: "clear_slack_user_id", Err: err}
	}

	log.Printf("📋 Completed successfully - disconnected Slack connection: %s", connectionID)
	return nil
}
