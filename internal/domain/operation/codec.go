package operation

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// WireFormat selects the field naming generation of the host schema.
type WireFormat string

const (
	FormatCurrent WireFormat = "current"
	FormatLegacy  WireFormat = "legacy"
)

var operationNames = map[WireFormat]map[Kind]string{
	FormatCurrent: {
		KindCodesAccept:       "enteredDiscountCodesAccept",
		KindOrderDiscounts:    "orderDiscountsAdd",
		KindProductDiscounts:  "productDiscountsAdd",
		KindDeliveryDiscounts: "deliveryDiscountsAdd",
	},
	FormatLegacy: {
		KindCodesAccept:       "addValidDiscountCodes",
		KindOrderDiscounts:    "addOrderDiscounts",
		KindProductDiscounts:  "addProductDiscounts",
		KindDeliveryDiscounts: "addDeliveryDiscounts",
	},
}

var excludedFieldNames = map[WireFormat]string{
	FormatCurrent: "excludedCartLineIds",
	FormatLegacy:  "excludedVariantIds",
}

// decodeOrder fixes the emission order of variants found in one fetched item.
var decodeOrder = []Kind{KindCodesAccept, KindProductDiscounts, KindOrderDiscounts, KindDeliveryDiscounts}

func (f WireFormat) Valid() bool {
	_, ok := operationNames[f]
	return ok
}

// Name returns the wire key of an operation kind.
func (f WireFormat) Name(k Kind) string {
	return operationNames[f][k]
}

// KindOf resolves a wire key of either naming generation.
func KindOf(name string) (Kind, bool) {
	for _, names := range operationNames {
		for k, n := range names {
			if n == name {
				return k, true
			}
		}
	}
	return "", false
}

type wireCode struct {
	Code string `json:"code"`
}

type wireCodes struct {
	Codes []wireCode `json:"codes"`
}

type wireDiscounts struct {
	SelectionStrategy SelectionStrategy `json:"selectionStrategy"`
	Candidates        []wireCandidate   `json:"candidates"`
}

type wireCandidate struct {
	Targets                []map[string]any `json:"targets"`
	Value                  map[string]any   `json:"value"`
	Message                *string          `json:"message,omitempty"`
	AssociatedDiscountCode *wireCode        `json:"associatedDiscountCode,omitempty"`
	Conditions             []map[string]any `json:"conditions,omitempty"`
}

// Encode renders the operation as a single-key object in the given format.
func (o Operation) Encode(f WireFormat) (map[string]any, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown wire format %q", f)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	name := f.Name(o.Kind)
	if o.Kind == KindCodesAccept {
		codes := make([]wireCode, 0, len(o.Codes))
		for _, c := range o.Codes {
			codes = append(codes, wireCode{Code: c})
		}
		return map[string]any{name: wireCodes{Codes: codes}}, nil
	}

	candidates := make([]wireCandidate, 0, len(o.Candidates))
	for _, c := range o.Candidates {
		candidates = append(candidates, encodeCandidate(c, f))
	}
	return map[string]any{name: wireDiscounts{
		SelectionStrategy: o.SelectionStrategy,
		Candidates:        candidates,
	}}, nil
}

// EncodeAll encodes a list of operations, preserving order.
func EncodeAll(ops []Operation, f WireFormat) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(ops))
	for i, op := range ops {
		enc, err := op.Encode(f)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		out = append(out, enc)
	}
	return out, nil
}

func encodeCandidate(c Candidate, f WireFormat) wireCandidate {
	wc := wireCandidate{
		Targets: make([]map[string]any, 0, len(c.Targets)),
		Value:   encodeValue(c.Value),
	}
	for _, t := range c.Targets {
		wc.Targets = append(wc.Targets, encodeTarget(t, f))
	}
	if c.Message != "" {
		msg := c.Message
		wc.Message = &msg
	}
	if c.AssociatedDiscountCode != "" {
		wc.AssociatedDiscountCode = &wireCode{Code: c.AssociatedDiscountCode}
	}
	for _, cond := range c.Conditions {
		wc.Conditions = append(wc.Conditions, encodeCondition(cond, f))
	}
	return wc
}

func encodeTarget(t Target, f WireFormat) map[string]any {
	switch t.Kind {
	case TargetOrderSubtotal:
		return map[string]any{string(t.Kind): map[string]any{excludedFieldNames[f]: nonNil(t.ExcludedCartLineIDs)}}
	case TargetCartLine:
		body := map[string]any{"id": t.ID}
		if t.Quantity != nil {
			body["quantity"] = *t.Quantity
		}
		return map[string]any{string(t.Kind): body}
	case TargetDeliveryGroup:
		return map[string]any{string(t.Kind): map[string]any{"id": t.ID}}
	default:
		return map[string]any{string(t.Kind): map[string]any{"handle": t.Handle}}
	}
}

func encodeValue(v Value) map[string]any {
	if v.Kind == ValueFixedAmount {
		return map[string]any{string(v.Kind): map[string]any{
			"amount":            v.Amount,
			"appliesToEachItem": v.AppliesToEachItem,
		}}
	}
	return map[string]any{string(ValuePercentage): map[string]any{"value": v.Amount}}
}

func encodeCondition(c Condition, f WireFormat) map[string]any {
	switch c.Kind {
	case ConditionOrderMinimumSubtotal:
		body := map[string]any{"minimumAmount": c.MinimumAmount}
		body[excludedFieldNames[f]] = nonNil(c.IDs)
		return map[string]any{string(c.Kind): body}
	case ConditionCartLineMinimumQuantity:
		return map[string]any{string(c.Kind): map[string]any{
			"ids":             nonNil(c.IDs),
			"minimumQuantity": c.MinimumQuantity,
		}}
	default:
		return map[string]any{string(c.Kind): map[string]any{
			"ids":           nonNil(c.IDs),
			"minimumAmount": c.MinimumAmount,
		}}
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// --- Decoding ---

type rawCandidate struct {
	Targets                []map[string]json.RawMessage `json:"targets"`
	Value                  map[string]json.RawMessage   `json:"value"`
	Message                *string                      `json:"message"`
	AssociatedDiscountCode *wireCode                    `json:"associatedDiscountCode"`
	Conditions             []map[string]json.RawMessage `json:"conditions"`
}

type rawDiscounts struct {
	SelectionStrategy SelectionStrategy `json:"selectionStrategy"`
	Candidates        []rawCandidate    `json:"candidates"`
}

// DecodeItem decodes one fetched operation item. Keys of either naming
// generation are recognised; unknown keys are ignored.
func DecodeItem(raw json.RawMessage) ([]Operation, error) {
	var item map[string]json.RawMessage
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("operation item is not an object: %w", err)
	}

	var ops []Operation
	for _, kind := range decodeOrder {
		for _, f := range []WireFormat{FormatCurrent, FormatLegacy} {
			body, ok := item[f.Name(kind)]
			if !ok || string(body) == "null" {
				continue
			}
			op, err := decodeOperation(kind, body)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name(kind), err)
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func decodeOperation(kind Kind, body json.RawMessage) (Operation, error) {
	if kind == KindCodesAccept {
		var wc wireCodes
		if err := json.Unmarshal(body, &wc); err != nil {
			return Operation{}, err
		}
		codes := make([]string, 0, len(wc.Codes))
		for _, c := range wc.Codes {
			codes = append(codes, c.Code)
		}
		op := AcceptCodes(codes...)
		return op, op.Validate()
	}

	var rd rawDiscounts
	if err := json.Unmarshal(body, &rd); err != nil {
		return Operation{}, err
	}
	op := Operation{Kind: kind, SelectionStrategy: rd.SelectionStrategy}
	for i, rc := range rd.Candidates {
		c, err := decodeCandidate(rc)
		if err != nil {
			return Operation{}, fmt.Errorf("candidate %d: %w", i, err)
		}
		op.Candidates = append(op.Candidates, c)
	}
	return op, op.Validate()
}

func decodeCandidate(rc rawCandidate) (Candidate, error) {
	var c Candidate
	for _, rt := range rc.Targets {
		t, err := decodeTarget(rt)
		if err != nil {
			return c, err
		}
		c.Targets = append(c.Targets, t)
	}

	v, err := decodeValue(rc.Value)
	if err != nil {
		return c, err
	}
	c.Value = v

	if rc.Message != nil {
		c.Message = *rc.Message
	}
	if rc.AssociatedDiscountCode != nil {
		c.AssociatedDiscountCode = rc.AssociatedDiscountCode.Code
	}
	for _, raw := range rc.Conditions {
		cond, err := decodeCondition(raw)
		if err != nil {
			return c, err
		}
		c.Conditions = append(c.Conditions, cond)
	}
	return c, nil
}

func singleKey(m map[string]json.RawMessage, what string) (string, json.RawMessage, error) {
	if len(m) != 1 {
		return "", nil, fmt.Errorf("%s must have exactly one variant, got %d", what, len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, nil
}

func decodeTarget(m map[string]json.RawMessage) (Target, error) {
	key, body, err := singleKey(m, "target")
	if err != nil {
		return Target{}, err
	}

	var fields struct {
		ID                  string   `json:"id"`
		Quantity            *int     `json:"quantity"`
		Handle              string   `json:"handle"`
		ExcludedCartLineIDs []string `json:"excludedCartLineIds"`
		ExcludedVariantIDs  []string `json:"excludedVariantIds"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return Target{}, fmt.Errorf("target %s: %w", key, err)
	}

	switch TargetKind(key) {
	case TargetOrderSubtotal:
		return OrderSubtotal(append(fields.ExcludedCartLineIDs, fields.ExcludedVariantIDs...)...), nil
	case TargetCartLine:
		return Target{Kind: TargetCartLine, ID: fields.ID, Quantity: fields.Quantity}, nil
	case TargetDeliveryGroup:
		return DeliveryGroup(fields.ID), nil
	case TargetDeliveryOption:
		return DeliveryOption(fields.Handle), nil
	}
	return Target{}, fmt.Errorf("unknown target %q", key)
}

func decodeValue(m map[string]json.RawMessage) (Value, error) {
	key, body, err := singleKey(m, "value")
	if err != nil {
		return Value{}, err
	}

	switch ValueKind(key) {
	case ValuePercentage:
		var p struct {
			Value decimal.Decimal `json:"value"`
		}
		if err := json.Unmarshal(body, &p); err != nil {
			return Value{}, fmt.Errorf("percentage: %w", err)
		}
		return Percentage(p.Value), nil
	case ValueFixedAmount:
		var fa struct {
			Amount            decimal.Decimal `json:"amount"`
			AppliesToEachItem bool            `json:"appliesToEachItem"`
		}
		if err := json.Unmarshal(body, &fa); err != nil {
			return Value{}, fmt.Errorf("fixedAmount: %w", err)
		}
		return FixedAmount(fa.Amount, fa.AppliesToEachItem), nil
	}
	return Value{}, fmt.Errorf("unknown value %q", key)
}

func decodeCondition(m map[string]json.RawMessage) (Condition, error) {
	key, body, err := singleKey(m, "condition")
	if err != nil {
		return Condition{}, err
	}

	var fields struct {
		IDs                 []string        `json:"ids"`
		CartLineIDs         []string        `json:"cartLineIds"`
		ExcludedCartLineIDs []string        `json:"excludedCartLineIds"`
		ExcludedVariantIDs  []string        `json:"excludedVariantIds"`
		MinimumAmount       decimal.Decimal `json:"minimumAmount"`
		MinimumQuantity     int             `json:"minimumQuantity"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return Condition{}, fmt.Errorf("condition %s: %w", key, err)
	}
	ids := append(fields.IDs, fields.CartLineIDs...)

	switch ConditionKind(key) {
	case ConditionOrderMinimumSubtotal:
		return OrderMinimumSubtotal(fields.MinimumAmount, append(fields.ExcludedCartLineIDs, fields.ExcludedVariantIDs...)...), nil
	case ConditionCartLineMinimumQuantity:
		return CartLineMinimumQuantity(fields.MinimumQuantity, ids...), nil
	case ConditionCartLineMinimumSubtotal:
		return CartLineMinimumSubtotal(fields.MinimumAmount, ids...), nil
	}
	return Condition{}, fmt.Errorf("unknown condition %q", key)
}
