// Package candidates turns the merchant configuration and the cart into
// discount operations.
package candidates

import (
	"context"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/Victor-armando18/discount-function/internal/interfaces"
	"github.com/shopspring/decimal"
)

type Builder struct {
	// Rules evaluates configuration.cartLineRule. When nil, a configured
	// rule is reported as malformed configuration.
	Rules    interfaces.LineRuleExecutor
	Delivery domain.DeliveryTargeting
}

func NewBuilder(rules interfaces.LineRuleExecutor, delivery domain.DeliveryTargeting) *Builder {
	return &Builder{Rules: rules, Delivery: delivery}
}

// Build emits order, product and delivery operations, in that order, for the
// eligible categories with a positive configured percentage.
func (b *Builder) Build(ctx context.Context, in *model.Input, cfg *domain.DiscountConfiguration, e domain.Eligibility) ([]operation.Operation, error) {
	return b.build(ctx, in, cfg, e, "")
}

// BuildForCodes emits the acceptance of the first valid code followed by the
// same operations as Build, each candidate carrying that code. No valid codes
// means no operations.
func (b *Builder) BuildForCodes(ctx context.Context, in *model.Input, cfg *domain.DiscountConfiguration, e domain.Eligibility, validCodes []string) ([]operation.Operation, error) {
	if len(validCodes) == 0 {
		return []operation.Operation{}, nil
	}
	code := validCodes[0]

	ops, err := b.build(ctx, in, cfg, e, code)
	if err != nil {
		return nil, err
	}
	return append([]operation.Operation{operation.AcceptCodes(code)}, ops...), nil
}

func (b *Builder) build(ctx context.Context, in *model.Input, cfg *domain.DiscountConfiguration, e domain.Eligibility, code string) ([]operation.Operation, error) {
	if cfg == nil {
		return nil, domain.ErrConfigurationMissing
	}
	ops := []operation.Operation{}

	if pct := cfg.Percentage(domain.CategoryOrder); e.Order && pct.IsPositive() {
		ops = append(ops, b.orderOperation(cfg, pct, code))
	}

	if pct := cfg.Percentage(domain.CategoryProduct); e.Product && pct.IsPositive() {
		op, ok, err := b.productOperation(ctx, in, cfg, pct, code)
		if err != nil {
			return nil, err
		}
		if ok {
			ops = append(ops, op)
		}
	}

	if pct := cfg.Percentage(domain.CategoryDelivery); e.Delivery && pct.IsPositive() {
		op, err := b.deliveryOperation(in, pct, code)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (b *Builder) orderOperation(cfg *domain.DiscountConfiguration, pct decimal.Decimal, code string) operation.Operation {
	c := operation.Candidate{
		Targets:                []operation.Target{operation.OrderSubtotal(cfg.ExcludedCartLineIDs...)},
		Value:                  operation.Percentage(pct),
		Message:                Message(pct, domain.CategoryOrder),
		AssociatedDiscountCode: code,
	}
	if cfg.OrderMinimumSubtotal.Valid {
		c.Conditions = []operation.Condition{
			operation.OrderMinimumSubtotal(cfg.OrderMinimumSubtotal.Decimal, cfg.ExcludedCartLineIDs...),
		}
	}
	return operation.OrderDiscounts(operation.First, c)
}

func (b *Builder) productOperation(ctx context.Context, in *model.Input, cfg *domain.DiscountConfiguration, pct decimal.Decimal, code string) (operation.Operation, bool, error) {
	var cart map[string]any
	if cfg.CartLineRule != nil {
		cart = in.Cart.ToMap()
	}

	var targets []operation.Target
	for _, line := range in.Cart.Lines {
		ok, err := b.qualifies(ctx, line, cart, cfg)
		if err != nil {
			return operation.Operation{}, false, err
		}
		if ok {
			targets = append(targets, operation.CartLine(line.ID))
		}
	}
	if len(targets) == 0 {
		return operation.Operation{}, false, nil
	}

	return operation.ProductDiscounts(operation.First, operation.Candidate{
		Targets:                targets,
		Value:                  operation.Percentage(pct),
		Message:                Message(pct, domain.CategoryProduct),
		AssociatedDiscountCode: code,
	}), true, nil
}

// qualifies applies, in order: line exclusions, variant exclusions, the
// collection allow-list and the merchant line rule.
func (b *Builder) qualifies(ctx context.Context, line model.CartLine, cart map[string]any, cfg *domain.DiscountConfiguration) (bool, error) {
	if !line.Merchandise.IsProductVariant() {
		return false, nil
	}
	if contains(cfg.ExcludedCartLineIDs, line.ID) {
		return false, nil
	}
	if contains(cfg.ExcludedVariantIDs, line.Merchandise.ID) {
		return false, nil
	}
	if len(cfg.CollectionIDs) > 0 && !line.Merchandise.Product.InCollections(cfg.CollectionIDs) {
		return false, nil
	}
	if cfg.CartLineRule == nil {
		return true, nil
	}

	if b.Rules == nil {
		return false, fmt.Errorf("%w: cartLineRule configured but no rule executor available", domain.ErrConfigurationMalformed)
	}
	ok, err := b.Rules.Evaluate(ctx, cfg.CartLineRule, map[string]any{
		"line": line.ToMap(),
		"cart": cart,
	})
	if err != nil {
		return false, fmt.Errorf("%w: cartLineRule on %s: %v", domain.ErrConfigurationMalformed, line.ID, err)
	}
	return ok, nil
}

func (b *Builder) deliveryOperation(in *model.Input, pct decimal.Decimal, code string) (operation.Operation, error) {
	groups := in.Cart.DeliveryGroups
	if len(groups) == 0 {
		return operation.Operation{}, domain.ErrMissingDeliveryGroup
	}
	if b.Delivery == domain.DeliveryFirstGroup {
		groups = groups[:1]
	}

	candidates := make([]operation.Candidate, 0, len(groups))
	for _, g := range groups {
		candidates = append(candidates, operation.Candidate{
			Targets:                []operation.Target{operation.DeliveryGroup(g.ID)},
			Value:                  operation.Percentage(pct),
			Message:                Message(pct, domain.CategoryDelivery),
			AssociatedDiscountCode: code,
		})
	}
	return operation.DeliveryDiscounts(operation.All, candidates...), nil
}

var messageSuffix = map[domain.Category]string{
	domain.CategoryOrder:    "ORDER",
	domain.CategoryProduct:  "PRODUCT",
	domain.CategoryDelivery: "DELIVERY",
}

// Message is the customer-facing label of a percentage candidate.
func Message(pct decimal.Decimal, c domain.Category) string {
	return fmt.Sprintf("%s%% OFF %s", pct.String(), messageSuffix[c])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
