package main

import (
	availabilityhandler "scheduleflow/internal/availability/handler"
	availabilityrepo "scheduleflow/internal/availability/repository"
	availabilitysvc "scheduleflow/internal/availability/service"
	availabilityvalidator "scheduleflow/internal/availability/validator"
	bookinghandler "scheduleflow/internal/booking/handler"
	bookingsvc "scheduleflow/internal/booking/service"
	"scheduleflow/internal/calendar"
	identityhandler "scheduleflow/internal/identity/handler"
	identityrepo "scheduleflow/internal/identity/repository"
	identitysvc "scheduleflow/internal/identity/service"
	"scheduleflow/internal/recommend"
	sellershandler "scheduleflow/internal/sellers/handler"
	sellersrepo "scheduleflow/internal/sellers/repository"
	sellerssvc "scheduleflow/internal/sellers/service"
	"scheduleflow/pkg/app"
	"scheduleflow/pkg/config"
	"scheduleflow/pkg/contracts"
	"scheduleflow/pkg/events"
)

const ServiceName = "scheduleflow"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting ScheduleFlow API")

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaSlotEventTopic, ServiceName, cfg.Log)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}()

	handlers := initHandlers(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, producer *events.Producer) []contracts.Handler {
	sellerRepo := sellersrepo.NewMongoSellerRepository(cfg)
	sellerService := sellerssvc.NewSellerService(sellerRepo, cfg)

	userRepo := identityrepo.NewMongoUserRepository(cfg)
	identityService := identitysvc.NewIdentityService(userRepo, sellerService, cfg)

	availabilityRepo := availabilityrepo.NewMongoAvailabilityRepository(cfg)
	availabilityService := availabilitysvc.NewAvailabilityService(
		availabilityRepo,
		availabilityvalidator.NewAvailabilityValidator(cfg.Log),
		producer,
		cfg,
	)

	calendarClient := calendar.NewClient(cfg)
	bookingService := bookingsvc.NewBookingService(availabilityService, identityService, calendarClient, cfg)

	matcher := recommend.NewMatcher(cfg)
	recommendService := recommend.NewRecommendService(matcher, sellerService, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		identityhandler.NewIdentityHandler(identityService, cfg.Log),
		sellershandler.NewSellerHandler(sellerService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		recommend.NewRecommendHandler(recommendService, cfg.Log),
	}
}
