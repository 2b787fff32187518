package main

import (
	authhandler "concierge/internal/auth/handler"
	authrepo "concierge/internal/auth/repository"
	authservice "concierge/internal/auth/service"
	"concierge/internal/bookings/events"
	bookinghandler "concierge/internal/bookings/handler"
	bookingrepo "concierge/internal/bookings/repository"
	bookingservice "concierge/internal/bookings/service"
	"concierge/internal/bookings/validator"
	"concierge/internal/catalog"
	cataloghandler "concierge/internal/catalog/handler"
	memberhandler "concierge/internal/members/handler"
	memberrepo "concierge/internal/members/repository"
	memberservice "concierge/internal/members/service"
	"concierge/internal/notifications"
	emailhandler "concierge/internal/notifications/handler"
	passwordhandler "concierge/internal/password/handler"
	passwordrepo "concierge/internal/password/repository"
	passwordservice "concierge/internal/password/service"
	rewardshandler "concierge/internal/rewards/handler"
	rewardsrepo "concierge/internal/rewards/repository"
	rewardsservice "concierge/internal/rewards/service"
	"concierge/pkg/app"
	"concierge/pkg/config"
	"concierge/pkg/contracts"
	"concierge/pkg/health"
	"concierge/pkg/kafka"
	kafka_config "concierge/pkg/kafka/config"
	kafka_middleware "concierge/pkg/kafka/middleware"
	"concierge/pkg/middleware"
	"concierge/pkg/sealer"
	"concierge/pkg/token"
	"concierge/pkg/validation"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Concierge API")
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(cfg.GracefulShutdown)

	handlers := initHandlers(cfg, serverApp)
	healthHandler := health.NewHandler(cfg.Log).
		WithMongo(cfg.Mongo).
		WithRedis(cfg.Redis)

	serverApp.SetApp(healthHandler, handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application) []contracts.Handler {
	validate := validation.New(cfg.Log)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	requireAuth := middleware.RequireAuth(issuer, cfg.Log)

	seal, err := sealer.New(cfg.SealKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token sealer", "error", err)
	}
	if cfg.SealKey == "" {
		cfg.Log.Warn("TOKEN_SEAL_KEY not set, staging tokens will not survive a restart")
	}

	users := authrepo.NewMongoUserRepository(cfg)
	members := memberrepo.NewMongoMemberRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)

	dispatcher, err := notifications.NewDispatcher(notifications.NewMailer(cfg), cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notification dispatcher", "error", err)
	}

	provider, err := catalog.NewProvider(cfg.CatalogLatency)
	if err != nil {
		cfg.Log.Fatal("Failed to load catalog", "error", err)
	}

	authService := authservice.NewAuthService(users, members, issuer, validate, cfg)
	memberService := memberservice.NewMemberService(members, memberrepo.NewPendingStore(cfg.Redis), issuer, seal, validate, cfg)
	bookingService := bookingservice.NewBookingService(bookings, validator.NewBookingValidator(cfg.Log), initPublisher(cfg, serverApp), cfg)
	rewardsService := rewardsservice.NewRewardsService(bookings, rewardsrepo.NewSpentRepository(cfg.Redis), cfg)
	passwordService := passwordservice.NewPasswordService(users, members, passwordrepo.NewResetStore(cfg.Redis), dispatcher, validate, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName, "events_enabled", cfg.EventsEnabled)

	return []contracts.Handler{
		authhandler.NewAuthHandler(authService, requireAuth, cfg.Log),
		memberhandler.NewMemberHandler(memberService, middleware.PaymentSignature(cfg.PaymentWebhookSecret, cfg.Log), cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, requireAuth, cfg.Log),
		rewardshandler.NewRewardsHandler(rewardsService, requireAuth, cfg.Log),
		passwordhandler.NewPasswordHandler(passwordService, cfg.Log),
		emailhandler.NewEmailHandler(dispatcher, cfg.Log),
		cataloghandler.NewCatalogHandler(provider, cfg.Log),
	}
}

// initPublisher returns nil when events are disabled, which the booking
// service replaces with a no-op publisher.
func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.EventsEnabled {
		return nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log.Component("kafka")))

	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	return events.NewKafkaPublisher(producer, ServiceName)
}
