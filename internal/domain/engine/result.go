package engine

import (
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
)

// Result is the run phase output envelope.
type Result struct {
	Operations []operation.Operation
	Format     operation.WireFormat
	Reasons    []Reason
}

// Assemble wraps the built operations unchanged and closes the evaluation.
func Assemble(ec *EngineContext, format operation.WireFormat) (*Result, error) {
	if ec.Phase != PhaseCandidatesBuilt {
		return nil, fmt.Errorf("candidates not built, evaluation is in %s", ec.Phase)
	}
	ec.Phase = PhaseResult
	ops := ec.Operations
	if ops == nil {
		ops = []operation.Operation{}
	}
	return &Result{Operations: ops, Format: format, Reasons: ec.Reasons}, nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	format := r.Format
	if format == "" {
		format = operation.FormatCurrent
	}
	ops, err := operation.EncodeAll(r.Operations, format)
	if err != nil {
		return nil, fmt.Errorf("encode operations: %w", err)
	}
	return json.Marshal(struct {
		Operations []map[string]any `json:"operations"`
	}{Operations: ops})
}

// FetchResult is the fetch phase output envelope.
type FetchResult struct {
	Output  domain.FetchOutput
	Reasons []Reason
}

// AssembleFetch wraps the described request and closes the evaluation.
func AssembleFetch(ec *EngineContext) (*FetchResult, error) {
	if ec.Phase != PhaseRequestBuilt {
		return nil, fmt.Errorf("request not built, evaluation is in %s", ec.Phase)
	}
	return &FetchResult{Output: domain.FetchOutput{Request: ec.Request}, Reasons: ec.Reasons}, nil
}

func (r FetchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Output)
}
