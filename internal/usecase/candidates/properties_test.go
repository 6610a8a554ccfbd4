package candidates

import (
	"context"
	"testing"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func cartWithGroups() *model.Input {
	in := input(line("a", "va"), line("b", "vb"))
	in.Cart.DeliveryGroups = []model.DeliveryGroup{{ID: "g1"}}
	return in
}

func hasKind(ops []operation.Operation, k operation.Kind) bool {
	for _, op := range ops {
		if op.Kind == k {
			return true
		}
	}
	return false
}

func TestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	b := NewBuilder(nil, domain.DeliveryAllGroups)
	all := domain.Eligibility{Order: true, Product: true, Delivery: true}

	properties.Property("non-positive percentages never emit their category", prop.ForAll(
		func(order, product, delivery int64) bool {
			cfg := &domain.DiscountConfiguration{
				OrderPercentage:    decimal.NewNullDecimal(decimal.NewFromInt(-order)),
				CartLinePercentage: decimal.NewNullDecimal(decimal.NewFromInt(-product)),
				DeliveryPercentage: decimal.NewNullDecimal(decimal.NewFromInt(-delivery)),
			}
			ops, err := b.Build(context.Background(), cartWithGroups(), cfg, all)
			return err == nil && len(ops) == 0
		},
		gen.Int64Range(0, 100), gen.Int64Range(0, 100), gen.Int64Range(0, 100),
	))

	properties.Property("ineligible categories are absent", prop.ForAll(
		func(o, p, d bool) bool {
			cfg := &domain.DiscountConfiguration{
				OrderPercentage:    pct("10"),
				CartLinePercentage: pct("10"),
				DeliveryPercentage: pct("10"),
			}
			e := domain.Eligibility{Order: o, Product: p, Delivery: d}
			ops, err := b.Build(context.Background(), cartWithGroups(), cfg, e)
			if err != nil {
				return false
			}
			return hasKind(ops, operation.KindOrderDiscounts) == o &&
				hasKind(ops, operation.KindProductDiscounts) == p &&
				hasKind(ops, operation.KindDeliveryDiscounts) == d
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("first valid code is attached everywhere", prop.ForAll(
		func(codes []string) bool {
			cfg := &domain.DiscountConfiguration{
				OrderPercentage:    pct("10"),
				CartLinePercentage: pct("10"),
				DeliveryPercentage: pct("10"),
			}
			ops, err := b.BuildForCodes(context.Background(), cartWithGroups(), cfg, all, codes)
			if err != nil {
				return false
			}
			if len(codes) == 0 {
				return len(ops) == 0
			}
			if ops[0].Kind != operation.KindCodesAccept || len(ops[0].Codes) != 1 || ops[0].Codes[0] != codes[0] {
				return false
			}
			for _, op := range ops[1:] {
				for _, c := range op.Candidates {
					if c.AssociatedDiscountCode != codes[0] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("output is deterministic", prop.ForAll(
		func(order, product int64) bool {
			cfg := &domain.DiscountConfiguration{
				OrderPercentage:    decimal.NewNullDecimal(decimal.NewFromInt(order)),
				CartLinePercentage: decimal.NewNullDecimal(decimal.NewFromInt(product)),
			}
			first, err1 := b.Build(context.Background(), cartWithGroups(), cfg, all)
			second, err2 := b.Build(context.Background(), cartWithGroups(), cfg, all)
			if err1 != nil || err2 != nil || len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].Kind != second[i].Kind {
					return false
				}
			}
			return true
		},
		gen.Int64Range(-10, 100), gen.Int64Range(-10, 100),
	))

	properties.TestingRun(t)
}
