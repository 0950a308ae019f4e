package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"reactodo/core"
	dbtx "reactodo/db/tx"
	"reactodo/models"
)

type PostgresSlackConnectionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for slack_connections table
var slackConnectionsColumns = []string{
	"id",
	"user_id",
	"slack_team_id",
	"slack_team_name",
	"workspace_name",
	"access_token",
	"token_type",
	"scope",
	"created_at",
	"updated_at",
}

func NewPostgresSlackConnectionsRepository(db *sqlx.DB, schema string) *PostgresSlackConnectionsRepository {
	return &PostgresSlackConnectionsRepository{db: db, schema: schema}
}

// UpsertSlackConnection inserts a connection or, when the (user_id,
// slack_team_id) pair already exists, refreshes its tokens and names.
// Re-connecting the same workspace updates rather than duplicates.
func (r *PostgresSlackConnectionsRepository) UpsertSlackConnection(
	ctx context.Context,
	connection *models.SlackConnection,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackConnectionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.slack_connections (
			id, user_id, slack_team_id, slack_team_name, workspace_name, access_token, token_type, scope, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (user_id, slack_team_id)
		DO UPDATE SET
			slack_team_name = EXCLUDED.slack_team_name,
			workspace_name = EXCLUDED.workspace_name,
			access_token = EXCLUDED.access_token,
			token_type = EXCLUDED.token_type,
			scope = EXCLUDED.scope,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		connection.ID,
		connection.UserID,
		connection.SlackTeamID,
		connection.SlackTeamName,
		connection.WorkspaceName,
		connection.AccessToken,
		connection.TokenType,
		connection.Scope,
	).StructScan(connection)
	if err != nil {
		return fmt.Errorf("failed to upsert slack connection: %w", err)
	}

	return nil
}

func (r *PostgresSlackConnectionsRepository) GetSlackConnectionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.SlackConnection], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.SlackConnection](), fmt.Errorf("connection ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackConnectionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_connections
		WHERE id = $1`, columnsStr, r.schema)

	var connection models.SlackConnection
	err := db.GetContext(ctx, &connection, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.SlackConnection](), nil
		}
		return mo.None[*models.SlackConnection](), fmt.Errorf("failed to get slack connection by ID: %w", err)
	}

	return mo.Some(&connection), nil
}

func (r *PostgresSlackConnectionsRepository) GetSlackConnectionsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SlackConnection, error) {
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackConnectionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_connections
		WHERE user_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var connections []*models.SlackConnection
	err := db.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slack connections by user ID: %w", err)
	}

	return connections, nil
}

func (r *PostgresSlackConnectionsRepository) DeleteSlackConnectionByID(
	ctx context.Context,
	connectionID, userID string,
) error {
	if !core.IsValidULID(connectionID) {
		return fmt.Errorf("connection ID must be a valid ULID")
	}
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`DELETE FROM %s.slack_connections WHERE id = $1 AND user_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, connectionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete slack connection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return core.ErrNotFound
	}

	return nil
}
