package mockserver

import (
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/shopspring/decimal"
)

const (
	ProductDiscountCode  = "10OFFPRODUCT"
	OrderDiscountCode    = "20OFFORDER"
	ShippingDiscountCode = "FREESHIPPING"
)

var knownCodes = []string{ProductDiscountCode, OrderDiscountCode, ShippingDiscountCode}

// ValidCodes keeps the entered codes the backend recognises, in entered order.
func ValidCodes(entered []string) []string {
	valid := []string{}
	for _, c := range entered {
		if contains(knownCodes, c) {
			valid = append(valid, c)
		}
	}
	return valid
}

// Operations answers a set of valid codes with acceptance, then cart, then
// delivery operations.
func Operations(valid []string) []operation.Operation {
	ops := []operation.Operation{}
	if len(valid) == 0 {
		return ops
	}
	ops = append(ops, operation.AcceptCodes(valid...))

	if contains(valid, ProductDiscountCode) {
		ops = append(ops, operation.ProductDiscounts(operation.First, operation.Candidate{
			Targets:                []operation.Target{operation.CartLine("gid://shopify/CartLine/0")},
			Value:                  operation.Percentage(decimal.NewFromInt(10)),
			AssociatedDiscountCode: ProductDiscountCode,
		}))
	}
	if contains(valid, OrderDiscountCode) {
		ops = append(ops, operation.OrderDiscounts(operation.First, operation.Candidate{
			Targets:                []operation.Target{operation.OrderSubtotal()},
			Value:                  operation.Percentage(decimal.NewFromInt(20)),
			AssociatedDiscountCode: OrderDiscountCode,
		}))
	}
	if contains(valid, ShippingDiscountCode) {
		ops = append(ops, operation.DeliveryDiscounts(operation.All, operation.Candidate{
			Targets:                []operation.Target{operation.DeliveryGroup("gid://shopify/DeliveryGroup/0")},
			Value:                  operation.Percentage(decimal.NewFromInt(100)),
			AssociatedDiscountCode: ShippingDiscountCode,
		}))
	}
	return ops
}
