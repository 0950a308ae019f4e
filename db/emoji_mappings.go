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

type PostgresEmojiMappingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for emoji_mappings table
var emojiMappingsColumns = []string{
	"id",
	"user_id",
	"today_emoji",
	"tomorrow_emoji",
	"later_emoji",
	"created_at",
	"updated_at",
}

func NewPostgresEmojiMappingsRepository(db *sqlx.DB, schema string) *PostgresEmojiMappingsRepository {
	return &PostgresEmojiMappingsRepository{db: db, schema: schema}
}

func (r *PostgresEmojiMappingsRepository) UpsertEmojiMapping(
	ctx context.Context,
	mapping *models.EmojiMapping,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(emojiMappingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.emoji_mappings (id, user_id, today_emoji, tomorrow_emoji, later_emoji, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			today_emoji = EXCLUDED.today_emoji,
			tomorrow_emoji = EXCLUDED.tomorrow_emoji,
			later_emoji = EXCLUDED.later_emoji,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		mapping.ID,
		mapping.UserID,
		mapping.TodayEmoji,
		mapping.TomorrowEmoji,
		mapping.LaterEmoji,
	).StructScan(mapping)
	if err != nil {
		return fmt.Errorf("failed to upsert emoji mapping: %w", err)
	}

	return nil
}

func (r *PostgresEmojiMappingsRepository) GetEmojiMappingByUserID(
	ctx context.Context,
	userID string,
) (mo.Option[*models.EmojiMapping], error) {
	if !core.IsValidULID(userID) {
		return mo.None[*models.EmojiMapping](), fmt.Errorf("user ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(emojiMappingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.emoji_mappings
		WHERE user_id = $1`, columnsStr, r.schema)

	var mapping models.EmojiMapping
	err := db.GetContext(ctx, &mapping, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.EmojiMapping](), nil
		}
		return mo.None[*models.EmojiMapping](), fmt.Errorf("failed to get emoji mapping by user ID: %w", err)
	}

	return mo.Some(&mapping), nil
}
