package service

import (
	"context"

	maestro "concierge/internal/maestro/core"
	"concierge/internal/maestro/flows"
	"concierge/pkg/client"
	"concierge/pkg/logger"
)

type MaestroService struct {
	client *client.Client
	engine *maestro.Engine
	Logger *logger.Logger
}

// NewMaestroService serves flows.All() unless explicit flows are given.
func NewMaestroService(client *client.Client, logger *logger.Logger, registered ...*maestro.Flow) *MaestroService {
	if len(registered) == 0 {
		registered = flows.All()
	}
	return &MaestroService{
		client: client,
		engine: maestro.NewEngine(registered...),
		Logger: logger,
	}
}

// ExecuteFlow runs one flow with a fresh session and returns its output.
func (s *MaestroService) ExecuteFlow(ctx context.Context, flowName string, input map[string]any) (map[string]any, error) {
	mctx := maestro.NewMaestroContext(ctx, input, s.client, s.Logger)
	if err := s.engine.Run(flowName, mctx); err != nil {
		return nil, err
	}
	return mctx.Output, nil
}

func (s *MaestroService) GetAvailableFlows() []string {
	return s.engine.Flows()
}
