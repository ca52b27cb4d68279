package main

import (
	activitiesrepo "farmbook/internal/activities/repository"
	"farmbook/internal/bookings/handler"
	"farmbook/internal/bookings/repository"
	"farmbook/internal/bookings/service"
	"farmbook/internal/bookings/validator"
	"farmbook/pkg/app"
	"farmbook/pkg/config"
	"farmbook/pkg/kafka"
	kafka_config "farmbook/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	if closer, ok := producer.(*kafka.Producer); ok {
		defer closer.Close()
	}

	bookingService := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, producer service.EventPublisher) service.BookingService {
	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewMongoSlotLockRepository(cfg),
		repository.NewMongoFingerprintRepository(cfg),
		activitiesrepo.NewMongoActivityRepository(cfg),
		validator.NewBookingValidator(cfg.MaxPartySize),
		producer,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initProducer returns nil when no brokers are configured; booking events
// are then skipped entirely.
func initProducer(cfg *config.Config) service.EventPublisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka publishing disabled, no brokers configured")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingsTopic, kafkaCfg.BookingsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.BookingsTopic,
	)
	return producer
}
