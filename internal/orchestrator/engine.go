// Package orchestrator runs multi-step flows. A flow is an ordered list of
// named steps sharing a FlowContext; the first failing step aborts the run.
// Steps before the first side effect are expected to do all validation, so a
// flow either fails clean or runs its effects in order.
package orchestrator

import (
	"context"
	"fmt"

	"scheduleflow/pkg/logger"
)

type Step struct {
	Name    string
	Execute func(ctx context.Context, fc *FlowContext) error
}

func NewStep(name string, execute func(ctx context.Context, fc *FlowContext) error) *Step {
	return &Step{
		Name:    name,
		Execute: execute,
	}
}

type Flow interface {
	Name() string
	Steps() []*Step
}

type Engine struct {
	flows map[string]Flow
	log   *logger.Logger
}

func NewEngine(log *logger.Logger, flows ...Flow) *Engine {
	m := map[string]Flow{}
	for _, f := range flows {
		m[f.Name()] = f
	}
	return &Engine{flows: m, log: log}
}

func (e *Engine) Run(ctx context.Context, flowName string, fc *FlowContext) error {
	f, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("unsupported flow: %v", flowName)
	}
	for _, step := range f.Steps() {
		e.log.Debug("Executing flow step", "flow", flowName, "step", step.Name)
		if err := step.Execute(ctx, fc); err != nil {
			return fmt.Errorf("%s step failed: %w", step.Name, err)
		}
	}
	return nil
}
