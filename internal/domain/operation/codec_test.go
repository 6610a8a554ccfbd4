package operation

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpDecimal = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestEncode_Current(t *testing.T) {
	op := ProductDiscounts(All, Candidate{
		Targets: []Target{CartLine("l1"), CartLineQuantity("l2", 3)},
		Value:   FixedAmount(decimal.RequireFromString("4.50"), true),
		Message: "flat",
	})

	enc, err := op.Encode(FormatCurrent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"productDiscountsAdd": {
	  "selectionStrategy": "ALL",
	  "candidates": [{
	    "targets": [{"cartLine": {"id": "l1"}}, {"cartLine": {"id": "l2", "quantity": 3}}],
	    "value": {"fixedAmount": {"amount": "4.5", "appliesToEachItem": true}},
	    "message": "flat"
	  }]
	}}`, mustJSON(t, enc))
}

func TestEncode_Conditions(t *testing.T) {
	op := OrderDiscounts(First, Candidate{
		Targets: []Target{OrderSubtotal()},
		Value:   Percentage(decimal.NewFromInt(10)),
		Conditions: []Condition{
			OrderMinimumSubtotal(decimal.NewFromInt(50)),
			CartLineMinimumQuantity(2, "l1"),
			CartLineMinimumSubtotal(decimal.NewFromInt(20), "l2"),
		},
	})

	enc, err := op.Encode(FormatLegacy)
	require.NoError(t, err)
	assert.JSONEq(t, `{"addOrderDiscounts": {
	  "selectionStrategy": "FIRST",
	  "candidates": [{
	    "targets": [{"orderSubtotal": {"excludedVariantIds": []}}],
	    "value": {"percentage": {"value": "10"}},
	    "conditions": [
	      {"orderMinimumSubtotal": {"minimumAmount": "50", "excludedVariantIds": []}},
	      {"cartLineMinimumQuantity": {"ids": ["l1"], "minimumQuantity": 2}},
	      {"cartLineMinimumSubtotal": {"ids": ["l2"], "minimumAmount": "20"}}
	    ]
	  }]
	}}`, mustJSON(t, enc))
}

func TestEncode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
	}{
		{name: "empty codes", op: AcceptCodes()},
		{name: "delivery FIRST", op: DeliveryDiscounts(First, Candidate{Targets: []Target{DeliveryGroup("g")}, Value: Percentage(decimal.NewFromInt(1))})},
		{name: "wrong target", op: OrderDiscounts(First, Candidate{Targets: []Target{CartLine("l")}, Value: Percentage(decimal.NewFromInt(1))})},
		{name: "conditions on product", op: ProductDiscounts(First, Candidate{
			Targets:    []Target{CartLine("l")},
			Value:      Percentage(decimal.NewFromInt(1)),
			Conditions: []Condition{CartLineMinimumQuantity(1)},
		})},
		{name: "no value", op: ProductDiscounts(First, Candidate{Targets: []Target{CartLine("l")}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op.Encode(FormatCurrent)
			assert.Error(t, err)
		})
	}

	_, err := AcceptCodes("A").Encode("v9")
	assert.Error(t, err)
}

func TestDecodeItem_RoundTrip(t *testing.T) {
	ops := []Operation{
		AcceptCodes("A", "B"),
		ProductDiscounts(Maximum, Candidate{
			Targets:                []Target{CartLineQuantity("l1", 2)},
			Value:                  Percentage(decimal.RequireFromString("12.5")),
			Message:                "12.5% OFF PRODUCT",
			AssociatedDiscountCode: "A",
		}),
		OrderDiscounts(First, Candidate{
			Targets:    []Target{OrderSubtotal("x")},
			Value:      FixedAmount(decimal.NewFromInt(5), false),
			Conditions: []Condition{OrderMinimumSubtotal(decimal.NewFromInt(30), "x")},
		}),
		DeliveryDiscounts(All,
			Candidate{Targets: []Target{DeliveryGroup("g1")}, Value: Percentage(decimal.NewFromInt(100))},
			Candidate{Targets: []Target{DeliveryOption("express")}, Value: Percentage(decimal.NewFromInt(50))},
		),
	}

	for _, f := range []WireFormat{FormatCurrent, FormatLegacy} {
		t.Run(string(f), func(t *testing.T) {
			item := map[string]any{}
			for _, op := range ops {
				enc, err := op.Encode(f)
				require.NoError(t, err)
				for k, v := range enc {
					item[k] = v
				}
			}

			got, err := DecodeItem(json.RawMessage(mustJSON(t, item)))
			require.NoError(t, err)

			want := []Operation{ops[0], ops[1], ops[2], ops[3]}
			if diff := cmp.Diff(want, got, cmpDecimal); diff != "" {
				t.Errorf("decoded operations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeItem_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an object", raw: `[1]`},
		{name: "unknown target", raw: `{"orderDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"shop": {}}], "value": {"percentage": {"value": 1}}}]}}`},
		{name: "unknown value", raw: `{"orderDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"orderSubtotal": {}}], "value": {"bogo": {}}}]}}`},
		{name: "bad decimal", raw: `{"orderDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"orderSubtotal": {}}], "value": {"percentage": {"value": "ten"}}}]}}`},
		{name: "unknown condition", raw: `{"orderDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"orderSubtotal": {}}], "value": {"percentage": {"value": 1}}, "conditions": [{"weather": {}}]}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeItem(json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeItem_IgnoresUnknownKeys(t *testing.T) {
	ops, err := DecodeItem(json.RawMessage(`{"somethingElse": {}, "enteredDiscountCodesAccept": null}`))
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestEncode_EmptyCandidates(t *testing.T) {
	enc, err := DeliveryDiscounts(All).Encode(FormatCurrent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deliveryDiscountsAdd": {"selectionStrategy": "ALL", "candidates": []}}`, mustJSON(t, enc))

	ops, err := DecodeItem(json.RawMessage(`{"productDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": []}}`))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Empty(t, ops[0].Candidates)
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf("addDeliveryDiscounts")
	assert.True(t, ok)
	assert.Equal(t, KindDeliveryDiscounts, k)

	k, ok = KindOf("enteredDiscountCodesAccept")
	assert.True(t, ok)
	assert.Equal(t, KindCodesAccept, k)

	_, ok = KindOf("somethingElse")
	assert.False(t, ok)
}
