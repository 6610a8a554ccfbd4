// Package function exposes the discount function to a host through per-target
// dispatch over raw JSON envelopes.
package function

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/infrastructure"
	"github.com/Victor-armando18/discount-function/internal/infrastructure/jsonlogic"
	"github.com/Victor-armando18/discount-function/internal/usecase"
	"go.uber.org/zap"
)

type (
	Policy = domain.Policy
	Target = domain.Target
)

const (
	CartLinesFetch = domain.TargetCartLinesFetch
	CartLinesRun   = domain.TargetCartLinesRun
	DeliveryFetch  = domain.TargetDeliveryFetch
	DeliveryRun    = domain.TargetDeliveryRun
)

var (
	ErrUnknownTarget          = domain.ErrUnknownTarget
	ErrConfigurationMissing   = domain.ErrConfigurationMissing
	ErrConfigurationMalformed = domain.ErrConfigurationMalformed
	ErrMissingFetchResult     = domain.ErrMissingFetchResult
	ErrMissingResponseBody    = domain.ErrMissingResponseBody
	ErrMalformedResponseBody  = domain.ErrMalformedResponseBody
	ErrMissingDeliveryGroup   = domain.ErrMissingDeliveryGroup
)

type Options struct {
	// Policy defaults to domain.DefaultPolicy when zero.
	Policy Policy
	Logger *zap.Logger
}

type Function struct {
	svc *usecase.DiscountService
}

func New(opts Options) (*Function, error) {
	policy := opts.Policy.WithDefaults()
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	svc := usecase.NewDiscountService(
		policy,
		infrastructure.NewMetafieldLoader(),
		jsonlogic.NewExecutor(),
		usecase.WithLogger(opts.Logger),
	)
	return &Function{svc: svc}, nil
}

func (f *Function) Policy() Policy { return f.svc.Policy() }

// Run evaluates one target against a raw input envelope and returns the raw
// output envelope. Errors are terminal; no partial output is returned.
func (f *Function) Run(ctx context.Context, target Target, input []byte) ([]byte, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	var in model.Input
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}

	var (
		out any
		err error
	)
	switch target {
	case CartLinesFetch:
		out, err = f.svc.CartLinesFetch(ctx, &in)
	case CartLinesRun:
		out, err = f.svc.CartLinesRun(ctx, &in)
	case DeliveryFetch:
		out, err = f.svc.DeliveryFetch(ctx, &in)
	case DeliveryRun:
		out, err = f.svc.DeliveryRun(ctx, &in)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func Targets() []Target {
	return domain.Targets()
}
