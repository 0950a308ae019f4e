package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactodo/models"
)

func TestParseReactionEvent(t *testing.T) {
	event := map[string]any{
		"type":      "reaction_added",
		"reaction":  "fire",
		"user":      "U12345678",
		"item_user": "U87654321",
		"item": map[string]any{
			"type":    "message",
			"channel": "C12345678",
			"ts":      "1700000000.000100",
		},
	}

	parsed, err := parseReactionEvent(event)
	require.NoError(t, err)
	require.NotNil(t, parsed)

	assert.Equal(t, "fire", parsed.Reaction)
	assert.Equal(t, "U12345678", parsed.ReactingUserID)
	assert.Equal(t, "C12345678", parsed.ChannelID)
	assert.Equal(t, "1700000000.000100", parsed.MessageTS)
	assert.Equal(t, "U87654321", parsed.ItemUserID)
}

func TestParseReactionEvent_NonMessageItem(t *testing.T) {
	event := map[string]any{
		"reaction": "fire",
		"user":     "U12345678",
		"item": map[string]any{
			"type": "file",
		},
	}

	parsed, err := parseReactionEvent(event)
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseReactionEvent_Malformed(t *testing.T) {
	malformed := []map[string]any{
		{},
		{"reaction": "fire"},
		{"reaction": "fire", "user": "U12345678"},
		{"reaction": "fire", "user": "U12345678", "item": map[string]any{"type": "message"}},
	}

	for _, event := range malformed {
		_, err := parseReactionEvent(event)
		assert.Error(t, err, "event %v should be rejected", event)
	}
}

func TestWriteOutcome_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    *models.PipelineOutcome
		wantStatus int
	}{
		{
			name:       "created is 200",
			outcome:    &models.PipelineOutcome{Kind: models.PipelineOutcomeCreated, TaskID: "task_1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "ignored is 200",
			outcome:    &models.PipelineOutcome{Kind: models.PipelineOutcomeIgnored},
			wantStatus: http.StatusOK,
		},
		{
			name:       "already processed is 200",
			outcome:    &models.PipelineOutcome{Kind: models.PipelineOutcomeAlreadyProcessed},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not configured is 200",
			outcome:    &models.PipelineOutcome{Kind: models.PipelineOutcomeNotConfigured},
			wantStatus: http.StatusOK,
		},
		{
			name: "webhook not found is 404",
			outcome: &models.PipelineOutcome{
				Kind:        models.PipelineOutcomeFailed,
				FailureKind: models.PipelineFailureWebhookNotFound,
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "owner not configured is 400",
			outcome: &models.PipelineOutcome{
				Kind:        models.PipelineOutcomeFailed,
				FailureKind: models.PipelineFailureOwnerNotConfigured,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "external service failure is 500",
			outcome: &models.PipelineOutcome{
				Kind:        models.PipelineOutcomeFailed,
				FailureKind: models.PipelineFailureExternalService,
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "internal failure is 500",
			outcome: &models.PipelineOutcome{
				Kind:        models.PipelineOutcomeFailed,
				FailureKind: models.PipelineFailureInternal,
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			writeOutcome(recorder, tt.outcome)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			var decoded models.PipelineOutcome
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&decoded))
			assert.Equal(t, tt.outcome.Kind, decoded.Kind)
		})
	}
}

func TestHandleSlackEvent_URLVerificationChallenge(t *testing.T) {
	handler := NewSlackEventsHandler(nil)
	router := mux.NewRouter()
	handler.SetupEndpoints(router)

	body := `{"type":"url_verification","challenge":"challenge-token-123"}`
	req := httptest.NewRequest(http.MethodPost, "/slack/events/user/wh_test", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "challenge-token-123", recorder.Body.String())
}

func TestHandleSlackEvent_IgnoresNonEventCallbacks(t *testing.T) {
	handler := NewSlackEventsHandler(nil)
	router := mux.NewRouter()
	handler.SetupEndpoints(router)

	body := `{"type":"app_rate_limited"}`
	req := httptest.NewRequest(http.MethodPost, "/slack/events/user/wh_test", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandleSlackEvent_RejectsMalformedBody(t *testing.T) {
	handler := NewSlackEventsHandler(nil)
	router := mux.NewRouter()
	handler.SetupEndpoints(router)

	req := httptest.NewRequest(http.MethodPost, "/slack/events/user/wh_test", strings.NewReader("not json"))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
