package core

import (
	"context"
	"fmt"
	"time"

	"concierge/pkg/client"
	"concierge/pkg/logger"
	"concierge/pkg/model"
)

// MaestroContext carries one flow run: the caller's input, intermediate
// values written by steps into Process, and the response in Output. Each run
// gets its own Session.
type MaestroContext struct {
	Ctx     context.Context
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	Session *client.Session
	Log     *logger.Logger
}

func NewMaestroContext(ctx context.Context, input map[string]any, c *client.Client, log *logger.Logger) *MaestroContext {
	if input == nil {
		input = map[string]any{}
	}
	return &MaestroContext{
		Ctx:     ctx,
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Client:  c,
		Session: client.NewSession(),
		Log:     log,
	}
}

func (c *MaestroContext) ExtractString(key string) string {
	s, _ := c.Input[key].(string)
	return s
}

func (c *MaestroContext) RequireString(key string) (string, error) {
	s := c.ExtractString(key)
	if IsMissing(s) {
		return "", MissingParamErr(key)
	}
	return s, nil
}

// ExtractFloat accepts JSON numbers and Go ints.
func (c *MaestroContext) ExtractFloat(key string) (float64, bool) {
	switch v := c.Input[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (c *MaestroContext) ExtractInt(key string) (int, bool) {
	f, ok := c.ExtractFloat(key)
	return int(f), ok
}

func (c *MaestroContext) ExtractDate(key string) (time.Time, error) {
	s, err := c.RequireString(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := model.ParseBookingDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("param [%s] is not a valid date: %w", key, err)
	}
	return t, nil
}
