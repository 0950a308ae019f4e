package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/mo"

	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
	"reactodo/services"
	"reactodo/utils"
)

type TasksService struct {
	tasksRepo           *db.PostgresTasksRepository
	processedEventsRepo *db.PostgresProcessedEventsRepository
}

func NewTasksService(
	tasksRepo *db.PostgresTasksRepository,
	processedEventsRepo *db.PostgresProcessedEventsRepository,
) *TasksService {
	return &TasksService{
		tasksRepo:           tasksRepo,
		processedEventsRepo: processedEventsRepo,
	}
}

// MaterializeSlackTask assembles and persists a task from a reaction event,
// then links the processed-event record to it. If the link write fails after
// the task was created, the error is surfaced with the task left intact;
// duplicate prevention is best-effort under that specific failure.
func (s *TasksService) MaterializeSlackTask(
	ctx context.Context,
	params services.MaterializeTaskParams,
) (*models.Task, error) {
	log.Printf("📋 Starting to materialize task for event: %s", params.EventID)
	if !core.IsValidULID(params.UserID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}
	if !core.IsValidULID(params.EventID) {
		return nil, fmt.Errorf("event ID must be a valid ULID")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = models.FallbackTaskTitle
	}

	deadline := models.DeadlineForUrgency(params.Urgency, time.Now())
	task := &models.Task{
		ID:         core.NewID("task"),
		UserID:     params.UserID,
		Title:      title,
		Body:       utils.ConvertSlackToPlainText(params.MessageText),
		Urgency:    params.Urgency,
		Deadline:   &deadline,
		CreatedVia: models.TaskOriginSlack,
	}
	if err := s.tasksRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.processedEventsRepo.AttachTaskID(ctx, params.EventID, task.ID); err != nil {
		log.Printf("❌ Task %s created but event link failed: %v", task.ID, err)
		return task, fmt.Errorf("task created but failed to link processed event: %w", err)
	}

	log.Printf("📋 Completed successfully - materialized task %s for event: %s", task.ID, params.EventID)
	return task, nil
}

func (s *TasksService) GetTaskByID(ctx context.Context, id string) (mo.Option[*models.Task], error) {
	log.Printf("📋 Starting to get task by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Task](), fmt.Errorf("task ID must be a valid ULID")
	}

	taskOpt, err := s.tasksRepo.GetTaskByID(ctx, id)
	if err != nil {
		return mo.None[*models.Task](), fmt.Errorf("failed to get task by ID: %w", err)
	}

	log.Printf("📋 Completed successfully - task lookup for: %s", id)
	return taskOpt, nil
}
