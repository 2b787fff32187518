package core

import (
	"fmt"
	"sort"
)

type Flow struct {
	Name  string
	Steps []*Step
}

func NewFlow(name string, steps ...*Step) *Flow {
	return &Flow{Name: name, Steps: steps}
}

type Engine struct {
	flows map[string]*Flow
}

func NewEngine(flows ...*Flow) *Engine {
	m := map[string]*Flow{}
	for _, f := range flows {
		m[f.Name] = f
	}
	return &Engine{flows: m}
}

// Run executes the steps in order and stops at the first failure. Completed
// steps are not undone.
func (e *Engine) Run(flowName string, ctx *MaestroContext) error {
	f, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFlow, flowName)
	}
	for _, step := range f.Steps {
		if err := ctx.Ctx.Err(); err != nil {
			return fmt.Errorf("%s step skipped: %w", step.Name, err)
		}
		if err := step.Execute(ctx); err != nil {
			return fmt.Errorf("%s step failed, pipeline errored: %w", step.Name, err)
		}
		ctx.Log.Debug("Flow step completed", "flow", flowName, "step", step.Name)
	}
	return nil
}

func (e *Engine) Flows() []string {
	names := make([]string, 0, len(e.flows))
	for name := range e.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
