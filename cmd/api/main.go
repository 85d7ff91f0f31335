package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/recharge-travels/api/internal/ai"
	"github.com/recharge-travels/api/internal/handlers"
	"github.com/recharge-travels/api/internal/payments"
	"github.com/recharge-travels/api/internal/platform/auth"
	"github.com/recharge-travels/api/internal/platform/config"
	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
	"github.com/recharge-travels/api/internal/platform/jobs"
	"github.com/recharge-travels/api/internal/platform/observability"
	"github.com/recharge-travels/api/internal/platform/secrets"
	platformstorage "github.com/recharge-travels/api/internal/platform/storage"
	firestoreRepo "github.com/recharge-travels/api/internal/repositories/firestore"
	"github.com/recharge-travels/api/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := resolveSecretRefs(ctx, logger, &cfg); err != nil {
		logger.Fatal("failed to resolve secret references", zap.Error(err))
	}

	buildInfo := buildInfoFromEnv(startedAt)

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	registry, err := firestoreRepo.NewRegistry(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise firestore repositories", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := registry.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	var documentStore services.DocumentStore
	if bucket := strings.TrimSpace(cfg.Storage.DocumentsBucket); bucket != "" {
		storageClient, err := platformstorage.NewClient(ctx, bucket, platformstorage.WithExpiry(cfg.Storage.SignedURLExpiry))
		if err != nil {
			logger.Fatal("failed to initialise storage client", zap.Error(err))
		}
		defer func() {
			if err := storageClient.Close(); err != nil {
				logger.Warn("storage close error", zap.Error(err))
			}
		}()
		documentStore = storageClient
	} else {
		logger.Warn("documents bucket not configured; vehicle document uploads disabled")
	}

	firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("failed to initialise firebase verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(firebaseVerifier)

	publisher, pubsubClient, err := newEventPublisher(ctx, logger, cfg.PubSub)
	if err != nil {
		logger.Fatal("failed to initialise event publisher", zap.Error(err))
	}
	if pubsubClient != nil {
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logger.Warn("pubsub close error", zap.Error(err))
			}
		}()
	}

	var depositProvider payments.DepositProvider
	if strings.TrimSpace(cfg.Payments.StripeAPIKey) != "" {
		stripeProvider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
			APIKey: cfg.Payments.StripeAPIKey,
			Logger: eventLogger(logger.Named("stripe")),
		})
		if err != nil {
			logger.Fatal("failed to initialise stripe provider", zap.Error(err))
		}
		depositProvider = stripeProvider
	} else {
		logger.Warn("stripe api key not configured; deposit holds disabled")
	}

	chatProvider, err := ai.NewOpenAIProvider(ai.OpenAIProviderConfig{
		APIKey:   cfg.Assistant.ChatAPIKey,
		Endpoint: cfg.Assistant.ChatEndpoint,
		Model:    cfg.Assistant.ChatModel,
		Logger:   eventLogger(logger.Named("openai")),
	})
	if err != nil {
		logger.Fatal("failed to initialise chat provider", zap.Error(err))
	}

	var speechProvider ai.SpeechProvider
	if cfg.Assistant.SpeechEnabled && strings.TrimSpace(cfg.Assistant.SpeechAPIKey) != "" {
		elevenLabs, err := ai.NewElevenLabsProvider(ai.ElevenLabsProviderConfig{
			APIKey:   cfg.Assistant.SpeechAPIKey,
			Endpoint: cfg.Assistant.SpeechEndpoint,
			VoiceID:  cfg.Assistant.SpeechVoiceID,
			ModelID:  cfg.Assistant.SpeechModelID,
			Logger:   eventLogger(logger.Named("elevenlabs")),
		})
		if err != nil {
			logger.Fatal("failed to initialise speech provider", zap.Error(err))
		}
		speechProvider = elevenLabs
	}

	contentService, err := services.NewContentService(services.ContentServiceDeps{
		Repository:      registry.Content(),
		Ayurveda:        registry.Ayurveda(),
		DefaultLanguage: cfg.Content.DefaultLanguage,
	})
	if err != nil {
		logger.Fatal("failed to initialise content service", zap.Error(err))
	}

	ayurvedaService, err := services.NewAyurvedaService(services.AyurvedaServiceDeps{
		Repository: registry.Ayurveda(),
	})
	if err != nil {
		logger.Fatal("failed to initialise ayurveda service", zap.Error(err))
	}

	vehicleService, err := services.NewVehicleService(services.VehicleServiceDeps{
		Vehicles:  registry.Vehicles(),
		Owners:    registry.VehicleOwners(),
		Documents: documentStore,
		Publisher: publisher,
		UploadTTL: cfg.Storage.SignedURLExpiry,
	})
	if err != nil {
		logger.Fatal("failed to initialise vehicle service", zap.Error(err))
	}

	bookingService, err := services.NewBookingService(services.BookingServiceDeps{
		Bookings:  registry.Bookings(),
		Vehicles:  registry.Vehicles(),
		Reviews:   registry.Reviews(),
		Deposits:  depositProvider,
		Publisher: publisher,
	})
	if err != nil {
		logger.Fatal("failed to initialise booking service", zap.Error(err))
	}

	assistantService, err := services.NewAssistantService(services.AssistantServiceDeps{
		Chat:   chatProvider,
		Speech: speechProvider,
	})
	if err != nil {
		logger.Fatal("failed to initialise assistant service", zap.Error(err))
	}

	contentHandlers := handlers.NewContentHandlers(contentService)
	assistantHandlers := handlers.NewAssistantHandlers(assistantService)
	vehicleHandlers := handlers.NewVehicleHandlers(authenticator, vehicleService, bookingService)
	bookingHandlers := handlers.NewBookingHandlers(authenticator, bookingService)
	adminAyurvedaHandlers := handlers.NewAdminAyurvedaHandlers(ayurvedaService)
	adminVehicleHandlers := handlers.NewAdminVehicleHandlers(vehicleService)
	adminBookingHandlers := handlers.NewAdminBookingHandlers(bookingService)

	projectID := traceProjectID(cfg)
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(projectID),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthPinger(registry.Health()),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithContentRoutes(contentHandlers.Routes),
		handlers.WithAssistantRoutes(assistantHandlers.Routes),
		handlers.WithVehicleRoutes(vehicleHandlers.Routes),
		handlers.WithBookingRoutes(bookingHandlers.Routes),
		handlers.WithAdminRoutes(func(r chi.Router) {
			r.Route("/ayurveda", adminAyurvedaHandlers.Routes)
			r.Route("/vehicles", adminVehicleHandlers.Routes)
			r.Route("/bookings", adminBookingHandlers.Routes)
		}),
		handlers.WithAdminMiddlewares(authenticator.RequireFirebaseAuth(auth.RoleAdmin, auth.RoleStaff)),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("recharge travels api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// secretRefScheme marks configuration values stored in Secret Manager.
const secretRefScheme = "sm://"

// resolveSecretRefs swaps sm:// references in the loaded configuration for
// their Secret Manager values. Plain env-provided keys pass through untouched
// and no Secret Manager client is created for them.
func resolveSecretRefs(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	refs := []*string{
		&cfg.Assistant.ChatAPIKey,
		&cfg.Assistant.SpeechAPIKey,
		&cfg.Payments.StripeAPIKey,
	}

	needsFetcher := false
	for _, ref := range refs {
		if strings.HasPrefix(strings.TrimSpace(*ref), secretRefScheme) {
			needsFetcher = true
			break
		}
	}
	if !needsFetcher {
		return nil
	}

	fetcher, err := secrets.NewFetcher(ctx, secrets.WithLogger(logger.Named("secrets")))
	if err != nil {
		return err
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	for _, ref := range refs {
		resolved, err := fetcher.Resolve(ctx, *ref)
		if err != nil {
			return err
		}
		*ref = resolved
	}
	return nil
}

func newEventPublisher(ctx context.Context, logger *zap.Logger, cfg config.PubSubConfig) (services.EventPublisher, *pubsub.Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		logger.Warn("pubsub project not configured; booking events disabled")
		return nil, nil, nil
	}

	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("pubsub client: %w", err)
	}

	publisher, err := jobs.NewPubSubEventPublisher(client.Topic(cfg.EventsTopic))
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return publisher, client, nil
}

// eventLogger adapts a zap logger to the map-based logging callback the
// external providers expect.
func eventLogger(logger *zap.Logger) func(ctx context.Context, event string, fields map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		logger.Info(event, zapFields...)
	}
}

func buildInfoFromEnv(started time.Time) handlers.BuildInfo {
	version := strings.TrimSpace(os.Getenv("API_BUILD_VERSION"))
	if version == "" {
		version = "dev"
	}
	commit := strings.TrimSpace(os.Getenv("API_BUILD_COMMIT_SHA"))
	if commit == "" {
		commit = "unknown"
	}
	environment := strings.TrimSpace(os.Getenv("API_ENVIRONMENT"))
	if environment == "" {
		environment = "local"
	}
	return handlers.BuildInfo{
		Version:     version,
		CommitSHA:   commit,
		Environment: environment,
		StartedAt:   started,
	}
}

func traceProjectID(cfg config.Config) string {
	if id := strings.TrimSpace(cfg.Firebase.ProjectID); id != "" {
		return id
	}
	return strings.TrimSpace(cfg.Firestore.ProjectID)
}
