package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"reactodo/appctx"
	"reactodo/core"
	"reactodo/middleware"
	"reactodo/models"
	"reactodo/services"
	"reactodo/services/connections"
)

type DashboardHandler struct {
	connectionsService   services.ConnectionsService
	webhooksService      services.WebhooksService
	emojiMappingsService services.EmojiMappingsService
	slackProfilesService services.SlackProfilesService
}

func NewDashboardHandler(
	connectionsService services.ConnectionsService,
	webhooksService services.WebhooksService,
	emojiMappingsService services.EmojiMappingsService,
	slackProfilesService services.SlackProfilesService,
) *DashboardHandler {
	return &DashboardHandler{
		connectionsService:   connectionsService,
		webhooksService:      webhooksService,
		emojiMappingsService: emojiMappingsService,
		slackProfilesService: slackProfilesService,
	}
}

type EmojiMappingRequest struct {
	TodayEmoji    string `json:"today_emoji"`
	TomorrowEmoji string `json:"tomorrow_emoji"`
	LaterEmoji    string `json:"later_emoji"`
}

type SlackProfileRequest struct {
	SlackUserID          *string `json:"slack_user_id"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

type WebhookResponse struct {
	models.Webhook
	URL string `json:"url"`
}

type DisconnectResponse struct {
	Status string `json:"status"`
	Step   string `json:"step,omitempty"`
}

func (h *DashboardHandler) HandleUserAuthenticate(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 User authentication request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	log.Printf("✅ User data retrieved from context: %s", user.ID)
	h.writeJSONResponse(w, http.StatusOK, user)
}

func (h *DashboardHandler) HandleListSlackConnections(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Slack connections request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conns, err := h.connectionsService.GetSlackConnectionsByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get Slack connections: %v", err)
		http.Error(w, "failed to get slack connections", http.StatusInternalServerError)
		return
	}

	masked := make([]models.SlackConnection, 0, len(conns))
	for _, c := range conns {
		masked = append(masked, c.Masked())
	}

	h.writeJSONResponse(w, http.StatusOK, masked)
}

func (h *DashboardHandler) HandleDisconnectSlackConnection(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Disconnect Slack connection request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	connectionID, ok := vars["id"]
	if !ok || !core.IsValidULID(connectionID) {
		log.Printf("❌ Missing or invalid connection ID in URL path")
		http.Error(w, "connection ID must be a valid ULID", http.StatusBadRequest)
		return
	}

	err := h.connectionsService.DisconnectSlackConnection(r.Context(), user.ID, connectionID)
	if err != nil {
		var partialErr *connections.PartialDisconnectError
		switch {
		case errors.As(err, &partialErr):
			// Connection and webhooks are gone; only the profile cleanup
			// failed. Not the same as a failed disconnect.
			log.Printf("⚠️ Slack connection %s disconnected with incomplete cleanup: %v", connectionID, err)
			h.writeJSONResponse(w, http.StatusOK, DisconnectResponse{
				Status: "disconnected_with_warnings",
				Step:   partialErr.Step,
			})
			return
		case errors.Is(err, core.ErrNotFound):
			http.Error(w, "connection not found", http.StatusNotFound)
			return
		case errors.Is(err, core.ErrUnauthorized):
			http.Error(w, "connection belongs to another user", http.StatusForbidden)
			return
		default:
			log.Printf("❌ Failed to disconnect Slack connection: %v", err)
			http.Error(w, "failed to disconnect slack connection", http.StatusInternalServerError)
			return
		}
	}

	log.Printf("✅ Slack connection disconnected successfully: %s", connectionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHandler) HandleEnsureWebhook(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Ensure webhook request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	connectionID, ok := h.ownedConnectionID(w, r, user.ID)
	if !ok {
		return
	}

	wh, err := h.webhooksService.EnsureWebhook(r.Context(), user.ID, connectionID)
	if err != nil {
		log.Printf("❌ Failed to ensure webhook: %v", err)
		http.Error(w, "failed to create webhook", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Webhook %s ready for connection %s", wh.ID, connectionID)
	h.writeJSONResponse(w, http.StatusOK, WebhookResponse{
		Webhook: *wh,
		URL:     h.webhooksService.WebhookURL(wh.ID),
	})
}

func (h *DashboardHandler) HandleGetWebhook(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get webhook request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	connectionID, ok := h.ownedConnectionID(w, r, user.ID)
	if !ok {
		return
	}

	webhookOpt, err := h.webhooksService.GetWebhookByConnectionID(r.Context(), connectionID)
	if err != nil {
		log.Printf("❌ Failed to get webhook: %v", err)
		http.Error(w, "failed to get webhook", http.StatusInternalServerError)
		return
	}
	if !webhookOpt.IsPresent() {
		http.Error(w, "webhook not found", http.StatusNotFound)
		return
	}

	wh := webhookOpt.MustGet()
	h.writeJSONResponse(w, http.StatusOK, WebhookResponse{
		Webhook: *wh,
		URL:     h.webhooksService.WebhookURL(wh.ID),
	})
}

func (h *DashboardHandler) HandleGetEmojiMapping(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get emoji mapping request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	mapping, err := h.emojiMappingsService.GetEffectiveMapping(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get emoji mapping: %v", err)
		http.Error(w, "failed to get emoji mapping", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, mapping)
}

func (h *DashboardHandler) HandleUpdateEmojiMapping(w http.ResponseWriter, r *http.Request) {
	log.Printf("✏️ Update emoji mapping request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req EmojiMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	mapping, err := h.emojiMappingsService.UpsertEmojiMapping(
		r.Context(),
		user.ID,
		req.TodayEmoji,
		req.TomorrowEmoji,
		req.LaterEmoji,
	)
	if err != nil {
		if validationErr, ok := core.AsValidationError(err); ok {
			log.Printf("❌ Emoji mapping rejected: %v", validationErr.Violations)
			h.writeJSONResponse(w, http.StatusBadRequest, map[string]any{
				"error":      "validation failed",
				"violations": validationErr.Violations,
			})
			return
		}
		log.Printf("❌ Failed to update emoji mapping: %v", err)
		http.Error(w, "failed to update emoji mapping", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Emoji mapping updated for user %s", user.ID)
	h.writeJSONResponse(w, http.StatusOK, mapping)
}

func (h *DashboardHandler) HandleGetSlackProfile(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get Slack profile request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	profileOpt, err := h.slackProfilesService.GetSlackProfileByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get Slack profile: %v", err)
		http.Error(w, "failed to get slack profile", http.StatusInternalServerError)
		return
	}

	if !profileOpt.IsPresent() {
		// No profile row yet; the settings page renders the unconfigured state
		h.writeJSONResponse(w, http.StatusOK, models.UserSlackProfile{UserID: user.ID})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, profileOpt.MustGet())
}

func (h *DashboardHandler) HandleUpdateSlackProfile(w http.ResponseWriter, r *http.Request) {
	log.Printf("✏️ Update Slack profile request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SlackProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.slackProfilesService.UpsertSlackProfile(r.Context(), user.ID, req.SlackUserID, req.NotificationsEnabled)
	if err != nil {
		if validationErr, ok := core.AsValidationError(err); ok {
			log.Printf("❌ Slack profile rejected: %v", validationErr.Violations)
			h.writeJSONResponse(w, http.StatusBadRequest, map[string]any{
				"error":      "validation failed",
				"violations": validationErr.Violations,
			})
			return
		}
		log.Printf("❌ Failed to update Slack profile: %v", err)
		http.Error(w, "failed to update slack profile", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Slack profile updated for user %s", user.ID)
	h.writeJSONResponse(w, http.StatusOK, profile)
}

// ownedConnectionID pulls the connection ID from the URL and verifies it
// belongs to the requesting user. Writes the error response itself when the
// check fails.
func (h *DashboardHandler) ownedConnectionID(w http.ResponseWriter, r *http.Request, userID string) (string, bool) {
	vars := mux.Vars(r)
	connectionID, ok := vars["id"]
	if !ok || !core.IsValidULID(connectionID) {
		log.Printf("❌ Missing or invalid connection ID in URL path")
		http.Error(w, "connection ID must be a valid ULID", http.StatusBadRequest)
		return "", false
	}

	connectionOpt, err := h.connectionsService.GetSlackConnectionByID(r.Context(), connectionID)
	if err != nil {
		log.Printf("❌ Failed to look up connection: %v", err)
		http.Error(w, "failed to look up connection", http.StatusInternalServerError)
		return "", false
	}
	if !connectionOpt.IsPresent() {
		http.Error(w, "connection not found", http.StatusNotFound)
		return "", false
	}
	if connectionOpt.MustGet().UserID != userID {
		log.Printf("❌ User %s attempted to access connection %s owned by someone else", userID, connectionID)
		http.Error(w, "connection belongs to another user", http.StatusForbidden)
		return "", false
	}

	return connectionID, true
}

func (h *DashboardHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering dashboard API endpoints")

	router.HandleFunc("/users/authenticate", authMiddleware.WithAuth(h.HandleUserAuthenticate)).Methods("POST")
	log.Printf("✅ POST /users/authenticate endpoint registered")

	router.HandleFunc("/slack/connections", authMiddleware.WithAuth(h.HandleListSlackConnections)).Methods("GET")
	log.Printf("✅ GET /slack/connections endpoint registered")

	router.HandleFunc("/slack/connections/{id}", authMiddleware.WithAuth(h.HandleDisconnectSlackConnection)).
		Methods("DELETE")
	log.Printf("✅ DELETE /slack/connections/{id} endpoint registered")

	router.HandleFunc("/slack/connections/{id}/webhook", authMiddleware.WithAuth(h.HandleEnsureWebhook)).
		Methods("POST")
	log.Printf("✅ POST /slack/connections/{id}/webhook endpoint registered")

	router.HandleFunc("/slack/connections/{id}/webhook", authMiddleware.WithAuth(h.HandleGetWebhook)).
		Methods("GET")
	log.Printf("✅ GET /slack/connections/{id}/webhook endpoint registered")

	router.HandleFunc("/settings/emoji-mapping", authMiddleware.WithAuth(h.HandleGetEmojiMapping)).Methods("GET")
	log.Printf("✅ GET /settings/emoji-mapping endpoint registered")

	router.HandleFunc("/settings/emoji-mapping", authMiddleware.WithAuth(h.HandleUpdateEmojiMapping)).Methods("PUT")
	log.Printf("✅ PUT /settings/emoji-mapping endpoint registered")

	router.HandleFunc("/settings/slack-profile", authMiddleware.WithAuth(h.HandleGetSlackProfile)).Methods("GET")
	log.Printf("✅ GET /settings/slack-profile endpoint registered")

	router.HandleFunc("/settings/slack-profile", authMiddleware.WithAuth(h.HandleUpdateSlackProfile)).Methods("PUT")
	log.Printf("✅ PUT /settings/slack-profile endpoint registered")

	log.Printf("✅ All dashboard API endpoints registered successfully")
}

func (h *DashboardHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
