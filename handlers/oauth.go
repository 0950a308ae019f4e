package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"reactodo/core"
	"reactodo/services"
)

type SlackOAuthHandler struct {
	connectionsService services.ConnectionsService
	webhooksService    services.WebhooksService
	appBaseURL         string
}

func NewSlackOAuthHandler(
	connectionsService services.ConnectionsService,
	webhooksService services.WebhooksService,
	appBaseURL string,
) *SlackOAuthHandler {
	return &SlackOAuthHandler{
		connectionsService: connectionsService,
		webhooksService:    webhooksService,
		appBaseURL:         appBaseURL,
	}
}

// CallbackRedirectURL is the redirect_uri registered with Slack; the token
// exchange must send the identical value.
func (h *SlackOAuthHandler) CallbackRedirectURL() string {
	return fmt.Sprintf("%s/api/slack/oauth/callback", h.appBaseURL)
}

// HandleOAuthCallback completes the Slack OAuth flow started from the
// settings page. The state parameter carries the initiating user's ID. A new
// connection also gets its webhook registered so the user can paste the URL
// into their Slack app right away.
func (h *SlackOAuthHandler) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Slack OAuth callback received from %s", r.RemoteAddr)

	query := r.URL.Query()

	if oauthErr := query.Get("error"); oauthErr != "" {
		log.Printf("⚠️ Slack OAuth flow denied: %s", oauthErr)
		h.redirectToSettings(w, r, url.Values{"slack_error": {oauthErr}})
		return
	}

	code := query.Get("code")
	userID := query.Get("state")
	if code == "" {
		log.Printf("❌ Missing code in OAuth callback")
		h.redirectToSettings(w, r, url.Values{"slack_error": {"missing_code"}})
		return
	}
	if !core.IsValidULID(userID) {
		log.Printf("❌ Missing or invalid state in OAuth callback")
		h.redirectToSettings(w, r, url.Values{"slack_error": {"invalid_state"}})
		return
	}

	connection, err := h.connectionsService.CreateSlackConnection(r.Context(), userID, code, h.CallbackRedirectURL())
	if err != nil {
		log.Printf("❌ Failed to create Slack connection: %v", err)
		h.redirectToSettings(w, r, url.Values{"slack_error": {classifyOAuthError(err)}})
		return
	}

	if _, err := h.webhooksService.EnsureWebhook(r.Context(), userID, connection.ID); err != nil {
		// Connection stands; the webhook can be created from the settings page
		log.Printf("⚠️ Connection created but webhook registration failed: %v", err)
	}

	log.Printf("✅ Slack workspace %s connected for user %s", connection.SlackTeamName, userID)
	h.redirectToSettings(w, r, url.Values{"slack_connected": {connection.ID}})
}

func classifyOAuthError(err error) string {
	if validationErr, ok := core.AsValidationError(err); ok {
		log.Printf("⚠️ OAuth payload violations: %v", validationErr.Violations)
		return "invalid_oauth_response"
	}
	return "exchange_failed"
}

func (h *SlackOAuthHandler) redirectToSettings(w http.ResponseWriter, r *http.Request, params url.Values) {
	target := fmt.Sprintf("%s/settings/integrations?%s", h.appBaseURL, params.Encode())
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *SlackOAuthHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack OAuth endpoints")

	router.HandleFunc("/slack/oauth/callback", h.HandleOAuthCallback).Methods("GET")
	log.Printf("✅ GET /slack/oauth/callback endpoint registered")
}
