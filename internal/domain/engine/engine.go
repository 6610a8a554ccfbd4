package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Engine runs an ordered list of steps, each advancing the evaluation to its
// target phase, then checks the guards.
type Engine struct {
	Steps  []Step
	Guards []Guard
	Logger *zap.Logger

	StepExecutor  StepExecutor
	GuardExecutor GuardExecutor
}

// PhaseError reports the phase a failed evaluation was trying to reach.
type PhaseError struct {
	Phase Phase
	Step  string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Phase, e.Step, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

func (e *Engine) Run(ctx context.Context, ec *EngineContext) error {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	se := e.StepExecutor
	if se == nil {
		se = defaultStepExecutor{}
	}
	ge := e.GuardExecutor
	if ge == nil {
		ge = defaultGuardExecutor{}
	}

	if ec.Phase == PhaseFailed {
		return &PhaseError{Phase: PhaseFailed, Step: "run", Err: fmt.Errorf("evaluation already failed")}
	}

	for _, s := range e.Steps {
		if err := ctx.Err(); err != nil {
			return e.fail(log, ec, s.Target, s.Name, err)
		}
		if !ec.Phase.CanAdvance(s.Target) {
			return e.fail(log, ec, s.Target, s.Name, fmt.Errorf("illegal transition %s → %s", ec.Phase, s.Target))
		}
		if err := se.Execute(ctx, s, ec); err != nil {
			return e.fail(log, ec, s.Target, s.Name, err)
		}
		from := ec.Phase
		if err := ec.advance(s.Target); err != nil {
			return e.fail(log, ec, s.Target, s.Name, err)
		}
		log.Debug("phase transition",
			zap.String("target", string(ec.Target)),
			zap.String("from", string(from)),
			zap.String("to", string(ec.Phase)),
			zap.String("step", s.Name),
		)
	}

	for _, g := range e.Guards {
		if err := ge.Execute(g, ec); err != nil {
			return e.fail(log, ec, ec.Phase, g.Name, err)
		}
	}
	return nil
}

func (e *Engine) fail(log *zap.Logger, ec *EngineContext, phase Phase, step string, err error) error {
	log.Warn("evaluation failed",
		zap.String("target", string(ec.Target)),
		zap.String("phase", string(phase)),
		zap.String("step", step),
		zap.Error(err),
	)
	ec.Phase = PhaseFailed
	return &PhaseError{Phase: phase, Step: step, Err: err}
}
