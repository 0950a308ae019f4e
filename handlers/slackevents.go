package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"reactodo/models"
	"reactodo/usecases/webhook"
)

var errMalformedEvent = errors.New("malformed reaction event")

type SlackEventsHandler struct {
	webhookUseCase *webhook.WebhookUseCase
}

func NewSlackEventsHandler(webhookUseCase *webhook.WebhookUseCase) *SlackEventsHandler {
	return &SlackEventsHandler{webhookUseCase: webhookUseCase}
}

// HandleSlackEvent receives one Slack Events API delivery addressed to a
// per-user webhook and responds with the pipeline outcome. Non-actionable
// deliveries get a success-shaped response so Slack does not retry them.
func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	webhookID := vars["webhookId"]

	log.Printf("📨 Slack event received for webhook %s from %s", webhookID, r.RemoteAddr)

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if body["type"] == "url_verification" {
		log.Printf("🔐 Slack URL verification challenge received")
		challenge, ok := body["challenge"].(string)
		if !ok {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		log.Printf("✅ Responding to Slack URL verification challenge")
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	if body["type"] != "event_callback" {
		log.Printf("📋 Non-event callback received: %v", body["type"])
		w.WriteHeader(http.StatusOK)
		return
	}

	event, ok := body["event"].(map[string]any)
	if !ok {
		log.Printf("❌ Event payload missing from callback")
		http.Error(w, "event not found", http.StatusBadRequest)
		return
	}

	eventType, _ := event["type"].(string)
	if eventType != "reaction_added" {
		log.Printf("📋 Ignoring unsupported event type: %s", eventType)
		w.WriteHeader(http.StatusOK)
		return
	}

	reactionEvent, err := parseReactionEvent(event)
	if err != nil {
		log.Printf("❌ Malformed reaction_added event: %v", err)
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}
	if reactionEvent == nil {
		// Reaction on a file or comment, nothing to do
		w.WriteHeader(http.StatusOK)
		return
	}

	outcome := h.webhookUseCase.ProcessReactionEvent(r.Context(), webhookID, *reactionEvent)
	writeOutcome(w, outcome)
}

// parseReactionEvent extracts the reaction fields from a reaction_added
// payload. Returns nil for reactions on non-message items.
func parseReactionEvent(event map[string]any) (*models.SlackReactionEvent, error) {
	reaction, _ := event["reaction"].(string)
	user, _ := event["user"].(string)
	item, _ := event["item"].(map[string]any)
	if reaction == "" || user == "" || item == nil {
		return nil, errMalformedEvent
	}

	itemType, _ := item["type"].(string)
	if itemType != "message" {
		log.Printf("⏭️ Ignoring reaction on non-message item: %s", itemType)
		return nil, nil
	}

	channel, _ := item["channel"].(string)
	ts, _ := item["ts"].(string)
	if channel == "" || ts == "" {
		return nil, errMalformedEvent
	}

	itemUser, _ := event["item_user"].(string)

	return &models.SlackReactionEvent{
		Reaction:       reaction,
		ReactingUserID: user,
		ChannelID:      channel,
		MessageTS:      ts,
		ItemUserID:     itemUser,
	}, nil
}

// writeOutcome maps the closed outcome set onto HTTP statuses. Ignored,
// already-processed and not-configured are deliberate no-ops and must look
// like success to Slack's retry logic.
func writeOutcome(w http.ResponseWriter, outcome *models.PipelineOutcome) {
	status := http.StatusOK
	if outcome.Kind == models.PipelineOutcomeFailed {
		switch outcome.FailureKind {
		case models.PipelineFailureWebhookNotFound:
			status = http.StatusNotFound
		case models.PipelineFailureOwnerNotConfigured:
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		log.Printf("❌ Failed to write outcome response: %v", err)
	}
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/events/user/{webhookId}", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events/user/{webhookId} endpoint registered")
}
