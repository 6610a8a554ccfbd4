package engine

import "context"

// Step moves the evaluation into Target by running Do.
type Step struct {
	Target Phase
	Name   string
	Do     func(ctx context.Context, ec *EngineContext) error
}

// Guard checks the evaluation once every step has run, before the result is
// assembled.
type Guard struct {
	Name  string
	Check func(ec *EngineContext) error
}

type StepExecutor interface {
	Execute(ctx context.Context, step Step, ec *EngineContext) error
}

type GuardExecutor interface {
	Execute(guard Guard, ec *EngineContext) error
}

type defaultStepExecutor struct{}

func (defaultStepExecutor) Execute(ctx context.Context, step Step, ec *EngineContext) error {
	if step.Do == nil {
		return nil
	}
	return step.Do(ctx, ec)
}

type defaultGuardExecutor struct{}

func (defaultGuardExecutor) Execute(guard Guard, ec *EngineContext) error {
	if guard.Check == nil {
		return nil
	}
	return guard.Check(ec)
}
