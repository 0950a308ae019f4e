package processedevents

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
	"reactodo/services"
)

type ProcessedEventsService struct {
	processedEventsRepo *db.PostgresProcessedEventsRepository
}

func NewProcessedEventsService(repo *db.PostgresProcessedEventsRepository) *ProcessedEventsService {
	return &ProcessedEventsService{processedEventsRepo: repo}
}

// ReserveEvent performs the atomic check-and-reserve for an event key. Under
// concurrent duplicate deliveries exactly one caller gets Reserved=true; the
// rest receive the previously recorded event, including the task ID once the
// winner has committed it.
func (s *ProcessedEventsService) ReserveEvent(
	ctx context.Context,
	webhookID, eventKey string,
) (*services.EventReservation, error) {
	log.Printf("📋 Starting to reserve event key: %s", eventKey)
	if !core.IsValidULID(webhookID) {
		return nil, fmt.Errorf("webhook ID must be a valid ULID")
	}

	event := &models.ProcessedEvent{
		ID:        core.NewID("pe"),
		EventKey:  eventKey,
		WebhookID: webhookID,
	}

	err := s.processedEventsRepo.InsertProcessedEvent(ctx, event)
	if err == nil {
		log.Printf("📋 Completed successfully - reserved event key: %s", eventKey)
		return &services.EventReservation{Reserved: true, Event: event}, nil
	}

	if !errors.Is(err, db.ErrEventAlreadyProcessed) {
		return nil, fmt.Errorf("failed to reserve event: %w", err)
	}

	// Lost the insert race (or this is a redelivery): report the existing record
	existingOpt, err := s.processedEventsRepo.GetProcessedEventByKey(ctx, webhookID, eventKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load already-processed event: %w", err)
	}
	if !existingOpt.IsPresent() {
		// The winning row must exist; processed events are never deleted
		return nil, fmt.Errorf("event %s reported as processed but record is missing", eventKey)
	}

	log.Printf("📋 Completed successfully - event key already processed: %s", eventKey)
	return &services.EventReservation{Reserved: false, Event: existingOpt.MustGet()}, nil
}

// AttachTask links a reserved event to the task it produced.
func (s *ProcessedEventsService) AttachTask(ctx context.Context, eventID, taskID string) error {
	log.Printf("📋 Starting to attach task %s to event %s", taskID, eventID)
	if err := s.processedEventsRepo.AttachTaskID(ctx, eventID, taskID); err != nil {
		return fmt.Errorf("failed to attach task to event: %w", err)
	}

	log.Printf("📋 Completed successfully - attached task %s to event %s", taskID, eventID)
	return nil
}
