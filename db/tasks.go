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

type PostgresTasksRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for tasks table
var tasksColumns = []string{
	"id",
	"user_id",
	"title",
	"body",
	"urgency",
	"deadline",
	"created_via",
	"created_at",
	"updated_at",
}

func NewPostgresTasksRepository(db *sqlx.DB, schema string) *PostgresTasksRepository {
	return &PostgresTasksRepository{db: db, schema: schema}
}

func (r *PostgresTasksRepository) CreateTask(ctx context.Context, task *models.Task) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(tasksColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.tasks (id, user_id, title, body, urgency, deadline, created_via, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Body,
		task.Urgency,
		task.Deadline,
		task.CreatedVia,
	).StructScan(task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *PostgresTasksRepository) GetTaskByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Task], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.Task](), fmt.Errorf("task ID must be a valid ULID")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(tasksColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.tasks
		WHERE id = $1`, columnsStr, r.schema)

	var task models.Task
	err := db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Task](), nil
		}
		return mo.None[*models.Task](), fmt.Errorf("failed to get task by ID: %w", err)
	}

	return mo.Some(&task), nil
}
