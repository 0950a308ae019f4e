package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"reactodo/core"
	dbtx "reactodo/db/tx"
	"reactodo/models"
)

// ErrEventAlreadyProcessed is returned by InsertProcessedEvent when the
// (webhook_id, event_key) pair has already been reserved. This is the
// unique-constraint-and-catch half of the idempotency guarantee.
var ErrEventAlreadyProcessed = errors.New("event already processed")

type PostgresProcessedEventsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for processed_events table
var processedEventsColumns = []string{
	"id",
	"event_key",
	"webhook_id",
	"task_id",
	"created_at",
}

func NewPostgresProcessedEventsRepository(db *sqlx.DB, schema string) *PostgresProcessedEventsRepository {
	return &PostgresProcessedEventsRepository{db: db, schema: schema}
}

// InsertProcessedEvent atomically reserves an event key. Concurrent duplicate
// deliveries race on the unique (webhook_id, event_key) constraint; exactly
// one insert wins, the rest get ErrEventAlreadyProcessed.
func (r *PostgresProcessedEventsRepository) InsertProcessedEvent(
	ctx context.Context,
	event *models.ProcessedEvent,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(processedEventsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.processed_events (id, event_key, webhook_id, task_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING %s`, r.schema, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		event.ID,
		event.EventKey,
		event.WebhookID,
		event.TaskID,
	).StructScan(event)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique violation
				return ErrEventAlreadyProcessed
			}
		}
		return fmt.Errorf("failed to insert processed event: %w", err)
	}

	return nil
}

func (r *PostgresProcessedEventsRepository) GetProcessedEventByKey(
	ctx context.Context,
	webhookID, eventKey string,
) (mo.Option[*models.ProcessedEvent], error) {
	if !core.IsValidULID(webhookID) {
		return mo.None[*models.ProcessedEvent](), fmt.Errorf("webhook ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(processedEventsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.processed_events
		WHERE webhook_id = $1 AND event_key = $2`, columnsStr, r.schema)

	var event models.ProcessedEvent
	err := db.GetContext(ctx, &event, query, webhookID, eventKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.ProcessedEvent](), nil
		}
		return mo.None[*models.ProcessedEvent](), fmt.Errorf("failed to get processed event by key: %w", err)
	}

	return mo.Some(&event), nil
}

// AttachTaskID links the reserved event to the task it produced. Rows are
// otherwise immutable.
func (r *PostgresProcessedEventsRepository) AttachTaskID(
	ctx context.Context,
	eventID, taskID string,
) error {
	if !core.IsValidULID(eventID) {
		return fmt.Errorf("event ID must be a valid ULID")
	}
	if !core.IsValidULID(taskID) {
		return fmt.Errorf("task ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.processed_events
		SET task_id = $2
		WHERE id = $1 AND task_id IS NULL`, r.schema)

	result, err := db.ExecContext(ctx, query, eventID, taskID)
	if err != nil {
		return fmt.Errorf("failed to attach task to processed event: %w", err)
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
