package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"concierge/internal/notifications"
	"concierge/pkg/config"
	"concierge/pkg/kafka"
	kafka_config "concierge/pkg/kafka/config"
	kafka_middleware "concierge/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	if !cfg.MailConfigured() {
		cfg.Log.Warn("Mail credentials missing, confirmation emails will be skipped")
	}
	dispatcher, err := notifications.NewDispatcher(notifications.NewMailer(cfg), cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notification dispatcher", "error", err)
	}

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.BookingEventsTopic,
		kafkaCfg.NotifierGroupID,
		kafkaCfg.BookingEventsDLQ,
		notifications.BookingEventHandler(dispatcher, cfg.Log.Component("booking-events")),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log.Component("kafka")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notification worker", "topic", kafkaCfg.BookingEventsTopic, "group_id", kafkaCfg.NotifierGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notification worker stopped")
}
