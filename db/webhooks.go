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

type PostgresWebhooksRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for webhooks table
var webhooksColumns = []string{
	"id",
	"secret",
	"connection_id",
	"user_id",
	"is_active",
	"event_count",
	"last_event_at",
	"created_at",
	"updated_at",
}

func NewPostgresWebhooksRepository(db *sqlx.DB, schema string) *PostgresWebhooksRepository {
	return &PostgresWebhooksRepository{db: db, schema: schema}
}

func (r *PostgresWebhooksRepository) CreateWebhook(ctx context.Context, webhook *models.Webhook) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(webhooksColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.webhooks (id, secret, connection_id, user_id, is_active, event_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		webhook.ID,
		webhook.Secret,
		webhook.ConnectionID,
		webhook.UserID,
		webhook.IsActive,
	).StructScan(webhook)
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	return nil
}

func (r *PostgresWebhooksRepository) GetWebhookByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Webhook], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.Webhook](), fmt.Errorf("webhook ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(webhooksColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.webhooks
		WHERE id = $1`, columnsStr, r.schema)

	var webhook models.Webhook
	err := db.GetContext(ctx, &webhook, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Webhook](), nil
		}
		return mo.None[*models.Webhook](), fmt.Errorf("failed to get webhook by ID: %w", err)
	}

	return mo.Some(&webhook), nil
}

func (r *PostgresWebhooksRepository) GetWebhookByConnectionID(
	ctx context.Context,
	connectionID string,
) (mo.Option[*models.Webhook], error) {
	if !core.IsValidULID(connectionID) {
		return mo.None[*models.Webhook](), fmt.Errorf("connection ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(webhooksColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.webhooks
		WHERE connection_id = $1`, columnsStr, r.schema)

	var webhook models.Webhook
	err := db.GetContext(ctx, &webhook, query, connectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Webhook](), nil
		}
		return mo.None[*models.Webhook](), fmt.Errorf("failed to get webhook by connection ID: %w", err)
	}

	return mo.Some(&webhook), nil
}

func (r *PostgresWebhooksRepository) SetWebhookActive(
	ctx context.Context,
	id string,
	isActive bool,
) (*models.Webhook, error) {
	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("webhook ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(webhooksColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.webhooks
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, r.schema, columnsStr)

	var webhook models.Webhook
	err := db.QueryRowxContext(ctx, query, id, isActive).StructScan(&webhook)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update webhook active flag: %w", err)
	}

	return &webhook, nil
}

// RecordWebhookEvent bumps event_count and touches last_event_at. The count is
// monotonically non-decreasing.
func (r *PostgresWebhooksRepository) RecordWebhookEvent(ctx context.Context, id string) error {
	if !core.IsValidULID(id) {
		return fmt.Errorf("webhook ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.webhooks
		SET event_count = event_count + 1, last_event_at = NOW(), updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
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

func (r *PostgresWebhooksRepository) DeleteWebhooksByConnectionID(
	ctx context.Context,
	connectionID string,
) error {
	if !core.IsValidULID(connectionID) {
		return fmt.Errorf("connection ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`DELETE FROM %s.webhooks WHERE connection_id = $1`, r.schema)

	_, err := db.ExecContext(ctx, query, connectionID)
	if err != nil {
		return fmt.Errorf("failed to delete webhooks by connection ID: %w", err)
	}

	return nil
}
