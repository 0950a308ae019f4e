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

type PostgresSlackProfilesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for user_slack_profiles table
var slackProfilesColumns = []string{
	"id",
	"user_id",
	"slack_user_id",
	"notifications_enabled",
	"created_at",
	"updated_at",
}

func NewPostgresSlackProfilesRepository(db *sqlx.DB, schema string) *PostgresSlackProfilesRepository {
	return &PostgresSlackProfilesRepository{db: db, schema: schema}
}

func (r *PostgresSlackProfilesRepository) UpsertSlackProfile(
	ctx context.Context,
	profile *models.UserSlackProfile,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackProfilesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.user_slack_profiles (id, user_id, slack_user_id, notifications_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			slack_user_id = EXCLUDED.slack_user_id,
			notifications_enabled = EXCLUDED.notifications_enabled,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		profile.ID,
		profile.UserID,
		profile.SlackUserID,
		profile.NotificationsEnabled,
	).StructScan(profile)
	if err != nil {
		return fmt.Errorf("failed to upsert slack profile: %w", err)
	}

	return nil
}

func (r *PostgresSlackProfilesRepository) GetSlackProfileByUserID(
	ctx context.Context,
	userID string,
) (mo.Option[*models.UserSlackProfile], error) {
	if !core.IsValidULID(userID) {
		return mo.None[*models.UserSlackProfile](), fmt.Errorf("user ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(slackProfilesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.user_slack_profiles
		WHERE user_id = $1`, columnsStr, r.schema)

	var profile models.UserSlackProfile
	err := db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.UserSlackProfile](), nil
		}
		return mo.None[*models.UserSlackProfile](), fmt.Errorf("failed to get slack profile by user ID: %w", err)
	}

	return mo.Some(&profile), nil
}

// ClearSlackUserID removes the stored Slack user ID, leaving the profile row
// in place. Used on workspace disconnect.
func (r *PostgresSlackProfilesRepository) ClearSlackUserID(ctx context.Context, userID string) error {
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.user_slack_profiles
		SET slack_user_id = NULL, updated_at = NOW()
		WHERE user_id = $1`, r.schema)

	_, err := db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear slack user ID: %w", err)
	}

	return nil
}
