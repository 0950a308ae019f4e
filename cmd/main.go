package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"reactodo/clients"
	anthropicclient "reactodo/clients/anthropic"
	slackclient "reactodo/clients/slack"
	"reactodo/config"
	"reactodo/db"
	"reactodo/handlers"
	"reactodo/middleware"
	"reactodo/services/connections"
	"reactodo/services/emojimappings"
	"reactodo/services/processedevents"
	"reactodo/services/slackprofiles"
	"reactodo/services/tasks"
	"reactodo/services/txmanager"
	"reactodo/services/users"
	"reactodo/services/webhooks"
	"reactodo/usecases/webhook"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	connectionsRepo := db.NewPostgresSlackConnectionsRepository(dbConn, cfg.DatabaseSchema)
	webhooksRepo := db.NewPostgresWebhooksRepository(dbConn, cfg.DatabaseSchema)
	processedEventsRepo := db.NewPostgresProcessedEventsRepository(dbConn, cfg.DatabaseSchema)
	emojiMappingsRepo := db.NewPostgresEmojiMappingsRepository(dbConn, cfg.DatabaseSchema)
	slackProfilesRepo := db.NewPostgresSlackProfilesRepository(dbConn, cfg.DatabaseSchema)
	tasksRepo := db.NewPostgresTasksRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	slackAPIClient := slackclient.NewSlackClient()
	titleGenerator := newTitleGenerator(cfg)

	usersService := users.NewUsersService(usersRepo)
	connectionsService := connections.NewConnectionsService(
		connectionsRepo,
		webhooksRepo,
		slackProfilesRepo,
		txManager,
		slackAPIClient,
		cfg.SlackConfig.ClientID,
		cfg.SlackConfig.ClientSecret,
	)
	webhooksService := webhooks.NewWebhooksService(webhooksRepo, slackProfilesRepo, cfg.AppBaseURL)
	emojiMappingsService := emojimappings.NewEmojiMappingsService(emojiMappingsRepo)
	processedEventsService := processedevents.NewProcessedEventsService(processedEventsRepo)
	slackProfilesService := slackprofiles.NewSlackProfilesService(slackProfilesRepo)
	tasksService := tasks.NewTasksService(tasksRepo, processedEventsRepo)

	webhookUseCase := webhook.NewWebhookUseCase(
		webhooksService,
		connectionsService,
		emojiMappingsService,
		processedEventsService,
		tasksService,
		slackAPIClient,
		titleGenerator,
	)

	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)
	eventsHandler := handlers.NewSlackEventsHandler(webhookUseCase)
	oauthHandler := handlers.NewSlackOAuthHandler(connectionsService, webhooksService, cfg.AppBaseURL)
	dashboardHandler := handlers.NewDashboardHandler(
		connectionsService,
		webhooksService,
		emojiMappingsService,
		slackProfilesService,
	)

	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()

	eventsHandler.SetupEndpoints(apiRouter)
	oauthHandler.SetupEndpoints(apiRouter)
	dashboardHandler.SetupEndpoints(apiRouter, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func newTitleGenerator(cfg *config.AppConfig) clients.TitleGenerator {
	if !cfg.AnthropicConfig.IsConfigured() {
		log.Printf("⚠️ Running without title generation, tasks will use the fallback title")
		return anthropicclient.NewDisabledTitleGenerator()
	}
	return anthropicclient.NewAnthropicClient(cfg.AnthropicConfig.APIKey)
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
