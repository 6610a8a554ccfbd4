package engine

import (
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
)

// EngineContext carries the state of one evaluation between steps. It is
// never shared across evaluations.
type EngineContext struct {
	Target      domain.Target
	Phase       Phase
	Input       *model.Input
	Config      *domain.DiscountConfiguration
	Eligibility domain.Eligibility
	Operations  []operation.Operation
	Request     *domain.HTTPRequest
	Reasons     []Reason
}

// Reason is a trace entry explaining why a step produced, skipped or dropped
// something.
type Reason struct {
	Phase   Phase  `json:"phase"`
	Step    string `json:"step"`
	Message string `json:"message"`
}

func NewContext(target domain.Target, in *model.Input) *EngineContext {
	return &EngineContext{Target: target, Phase: PhaseStart, Input: in}
}

// Note appends a trace entry for the current phase.
func (ec *EngineContext) Note(step, format string, args ...any) {
	ec.Reasons = append(ec.Reasons, Reason{
		Phase:   ec.Phase,
		Step:    step,
		Message: fmt.Sprintf(format, args...),
	})
}

func (ec *EngineContext) advance(next Phase) error {
	if !ec.Phase.CanAdvance(next) {
		return fmt.Errorf("illegal transition %s → %s", ec.Phase, next)
	}
	ec.Phase = next
	return nil
}
