package api

import (
	"concierge/internal/maestro/flows"
	"concierge/internal/maestro/handlers"
	"concierge/internal/maestro/service"
	"concierge/pkg/client"
	"concierge/pkg/contracts"
	"concierge/pkg/logger"
)

// SetupHandlers builds the orchestrator's route set on top of the SDK client.
func SetupHandlers(c *client.Client, log *logger.Logger, opts ...flows.Option) []contracts.Handler {
	maestroService := service.NewMaestroService(c, log, flows.All(opts...)...)
	return []contracts.Handler{
		handlers.NewFlowHandler(maestroService, log),
	}
}
