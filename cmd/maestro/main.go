package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"concierge/internal/maestro/api"
	"concierge/internal/maestro/flows"
	"concierge/pkg/client"
	"concierge/pkg/config"
	"concierge/pkg/health"
	"concierge/pkg/logger"
	"concierge/pkg/middleware"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
)

const (
	ServiceName = "maestro"

	flowTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:   getEnv("LOG_LEVEL", logger.INFO),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	baseURL := getEnv("API_BASE_URL", "http://localhost:8080")
	port := getEnv("MAESTRO_PORT", "8090")
	bookingEvents := config.DefaultEventsEnabled
	if v, err := strconv.ParseBool(getEnv(config.EnvEventsEnabled, "")); err == nil {
		bookingEvents = v
	}

	apiClient := client.New(baseURL, client.WithTimeout(15*time.Second))

	router := httprouter.New()
	healthHandler := health.NewHandler(log).WithCheck("api", func(ctx context.Context) error {
		resp, err := apiClient.HTTP.Do(ctx, http.MethodGet, "/health", "", nil)
		if err != nil {
			return err
		}
		if !resp.OK() {
			return fmt.Errorf("api answered %d", resp.StatusCode)
		}
		return nil
	})
	healthHandler.RegisterRoutes(router)
	for _, h := range api.SetupHandlers(apiClient, log, flows.WithBookingEvents(bookingEvents)) {
		h.RegisterRoutes(router)
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: middleware.Chain(router,
			middleware.Recovery(log),
			middleware.RequestLogging(log),
			middleware.ContentTypeValidation(log),
			middleware.RequestTimeout(flowTimeout, log),
		),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: flowTimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting Maestro API server", "address", server.Addr, "base_url", baseURL, "booking_events", bookingEvents)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	log.Info("Server stopped gracefully")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
