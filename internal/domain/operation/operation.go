package operation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies the operation variant returned to the host.
type Kind string

const (
	KindCodesAccept       Kind = "codesAccept"
	KindOrderDiscounts    Kind = "orderDiscounts"
	KindProductDiscounts  Kind = "productDiscounts"
	KindDeliveryDiscounts Kind = "deliveryDiscounts"
)

type SelectionStrategy string

const (
	First   SelectionStrategy = "FIRST"
	All     SelectionStrategy = "ALL"
	Maximum SelectionStrategy = "MAXIMUM"
)

// allowedStrategies mirrors the host schema enums per operation kind.
var allowedStrategies = map[Kind][]SelectionStrategy{
	KindOrderDiscounts:    {First, Maximum},
	KindProductDiscounts:  {First, Maximum, All},
	KindDeliveryDiscounts: {All},
}

// Operation is a closed tagged union: Codes is only meaningful for
// KindCodesAccept, SelectionStrategy and Candidates for the discount kinds.
type Operation struct {
	Kind              Kind
	SelectionStrategy SelectionStrategy
	Candidates        []Candidate
	Codes             []string
}

type Candidate struct {
	Targets                []Target
	Value                  Value
	Message                string
	AssociatedDiscountCode string
	Conditions             []Condition
}

func AcceptCodes(codes ...string) Operation {
	return Operation{Kind: KindCodesAccept, Codes: append([]string{}, codes...)}
}

func OrderDiscounts(strategy SelectionStrategy, candidates ...Candidate) Operation {
	return Operation{Kind: KindOrderDiscounts, SelectionStrategy: strategy, Candidates: candidates}
}

func ProductDiscounts(strategy SelectionStrategy, candidates ...Candidate) Operation {
	return Operation{Kind: KindProductDiscounts, SelectionStrategy: strategy, Candidates: candidates}
}

func DeliveryDiscounts(strategy SelectionStrategy, candidates ...Candidate) Operation {
	return Operation{Kind: KindDeliveryDiscounts, SelectionStrategy: strategy, Candidates: candidates}
}

// --- Targets ---

type TargetKind string

const (
	TargetOrderSubtotal  TargetKind = "orderSubtotal"
	TargetCartLine       TargetKind = "cartLine"
	TargetDeliveryGroup  TargetKind = "deliveryGroup"
	TargetDeliveryOption TargetKind = "deliveryOption"
)

type Target struct {
	Kind                TargetKind
	ID                  string
	Quantity            *int
	Handle              string
	ExcludedCartLineIDs []string
}

func OrderSubtotal(excluded ...string) Target {
	return Target{Kind: TargetOrderSubtotal, ExcludedCartLineIDs: append([]string{}, excluded...)}
}

func CartLine(id string) Target {
	return Target{Kind: TargetCartLine, ID: id}
}

func CartLineQuantity(id string, quantity int) Target {
	return Target{Kind: TargetCartLine, ID: id, Quantity: &quantity}
}

func DeliveryGroup(id string) Target {
	return Target{Kind: TargetDeliveryGroup, ID: id}
}

func DeliveryOption(handle string) Target {
	return Target{Kind: TargetDeliveryOption, Handle: handle}
}

// targetsFor lists which target variants each discount kind may carry.
var targetsFor = map[Kind][]TargetKind{
	KindOrderDiscounts:    {TargetOrderSubtotal},
	KindProductDiscounts:  {TargetCartLine},
	KindDeliveryDiscounts: {TargetDeliveryGroup, TargetDeliveryOption},
}

// --- Values ---

type ValueKind string

const (
	ValuePercentage  ValueKind = "percentage"
	ValueFixedAmount ValueKind = "fixedAmount"
)

type Value struct {
	Kind              ValueKind
	Amount            decimal.Decimal
	AppliesToEachItem bool
}

func Percentage(v decimal.Decimal) Value {
	return Value{Kind: ValuePercentage, Amount: v}
}

func FixedAmount(amount decimal.Decimal, appliesToEachItem bool) Value {
	return Value{Kind: ValueFixedAmount, Amount: amount, AppliesToEachItem: appliesToEachItem}
}

// --- Conditions (order candidates only) ---

type ConditionKind string

const (
	ConditionOrderMinimumSubtotal    ConditionKind = "orderMinimumSubtotal"
	ConditionCartLineMinimumQuantity ConditionKind = "cartLineMinimumQuantity"
	ConditionCartLineMinimumSubtotal ConditionKind = "cartLineMinimumSubtotal"
)

type Condition struct {
	Kind            ConditionKind
	IDs             []string
	MinimumAmount   decimal.Decimal
	MinimumQuantity int
}

func OrderMinimumSubtotal(minimum decimal.Decimal, excluded ...string) Condition {
	return Condition{Kind: ConditionOrderMinimumSubtotal, MinimumAmount: minimum, IDs: append([]string{}, excluded...)}
}

func CartLineMinimumQuantity(minimum int, ids ...string) Condition {
	return Condition{Kind: ConditionCartLineMinimumQuantity, MinimumQuantity: minimum, IDs: ids}
}

func CartLineMinimumSubtotal(minimum decimal.Decimal, ids ...string) Condition {
	return Condition{Kind: ConditionCartLineMinimumSubtotal, MinimumAmount: minimum, IDs: ids}
}

// Validate checks the variant invariants the host schema enforces. An empty
// candidate list is valid and applies nothing.
func (o Operation) Validate() error {
	if o.Kind == KindCodesAccept {
		if len(o.Codes) == 0 {
			return fmt.Errorf("%s: at least one code is required", o.Kind)
		}
		return nil
	}

	strategies, ok := allowedStrategies[o.Kind]
	if !ok {
		return fmt.Errorf("unknown operation kind %q", o.Kind)
	}
	if !containsStrategy(strategies, o.SelectionStrategy) {
		return fmt.Errorf("%s: selection strategy %q not allowed", o.Kind, o.SelectionStrategy)
	}
	for i, c := range o.Candidates {
		if len(c.Targets) == 0 {
			return fmt.Errorf("%s: candidate %d has no targets", o.Kind, i)
		}
		for _, t := range c.Targets {
			if !containsTarget(targetsFor[o.Kind], t.Kind) {
				return fmt.Errorf("%s: candidate %d: target %q not allowed", o.Kind, i, t.Kind)
			}
		}
		if c.Value.Kind != ValuePercentage && c.Value.Kind != ValueFixedAmount {
			return fmt.Errorf("%s: candidate %d: unknown value kind %q", o.Kind, i, c.Value.Kind)
		}
		if len(c.Conditions) > 0 && o.Kind != KindOrderDiscounts {
			return fmt.Errorf("%s: candidate %d: conditions are only valid on order discounts", o.Kind, i)
		}
	}
	return nil
}

func containsStrategy(list []SelectionStrategy, s SelectionStrategy) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsTarget(list []TargetKind, k TargetKind) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}
