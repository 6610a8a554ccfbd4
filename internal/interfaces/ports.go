package interfaces

import (
	"context"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/engine"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
)

// ConfigurationLoader turns the discount metafield into a typed configuration.
type ConfigurationLoader interface {
	Load(ctx context.Context, metafield *model.Metafield) (*domain.DiscountConfiguration, error)
}

// LineRuleExecutor decides whether a cart line passes a merchant-written rule.
type LineRuleExecutor interface {
	Evaluate(ctx context.Context, rule map[string]any, data map[string]any) (bool, error)
}

// PolicyLoader reads a deployment policy.
type PolicyLoader interface {
	Load(path string) (domain.Policy, error)
}

// DiscountFunction is the per-target entry point handed to the host.
type DiscountFunction interface {
	CartLinesFetch(ctx context.Context, in *model.Input) (*engine.FetchResult, error)
	CartLinesRun(ctx context.Context, in *model.Input) (*engine.Result, error)
	DeliveryFetch(ctx context.Context, in *model.Input) (*engine.FetchResult, error)
	DeliveryRun(ctx context.Context, in *model.Input) (*engine.Result, error)
}
