package decode

import (
	"encoding/json"
	"testing"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fetched = `[
  {"enteredDiscountCodesAccept": {"codes": [{"code": "10OFFPRODUCT"}]}},
  {"productDiscountsAdd": {
    "selectionStrategy": "FIRST",
    "candidates": [{
      "targets": [{"cartLine": {"id": "gid://shopify/CartLine/0"}}],
      "value": {"percentage": {"value": 10}},
      "message": "10% OFF PRODUCT",
      "associatedDiscountCode": {"code": "10OFFPRODUCT"}
    }]
  }},
  {"orderDiscountsAdd": {
    "selectionStrategy": "FIRST",
    "candidates": [{
      "targets": [{"orderSubtotal": {"excludedCartLineIds": []}}],
      "value": {"percentage": {"value": 20}}
    }]
  }},
  {"deliveryDiscountsAdd": {
    "selectionStrategy": "ALL",
    "candidates": [{
      "targets": [{"deliveryGroup": {"id": "gid://shopify/DeliveryGroup/0"}}],
      "value": {"percentage": {"value": 100}}
    }]
  }}
]`

func jsonResult(body string) *model.FetchResult {
	return &model.FetchResult{Status: 200, JSONBody: json.RawMessage(body)}
}

func kinds(ops []operation.Operation) []operation.Kind {
	out := make([]operation.Kind, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Kind)
	}
	return out
}

func TestOperations_PreservesItemOrder(t *testing.T) {
	e := domain.Eligibility{Order: true, Product: true, Delivery: true}

	ops, err := Operations(jsonResult(fetched), e)
	require.NoError(t, err)
	assert.Equal(t, []operation.Kind{
		operation.KindCodesAccept,
		operation.KindProductDiscounts,
		operation.KindOrderDiscounts,
		operation.KindDeliveryDiscounts,
	}, kinds(ops))
	assert.Equal(t, []string{"10OFFPRODUCT"}, ops[0].Codes)
	assert.Equal(t, "10OFFPRODUCT", ops[1].Candidates[0].AssociatedDiscountCode)
}

func TestOperations_FiltersByEligibility(t *testing.T) {
	t.Run("delivery only drops product", func(t *testing.T) {
		body := `[{"productDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{
			"targets": [{"cartLine": {"id": "l1"}}], "value": {"percentage": {"value": 10}}}]}}]`
		ops, err := Operations(jsonResult(body), domain.Eligibility{})
		require.NoError(t, err)
		assert.Empty(t, ops)
	})

	t.Run("order only keeps acceptance", func(t *testing.T) {
		ops, err := Operations(jsonResult(fetched), domain.Eligibility{Order: true})
		require.NoError(t, err)
		assert.Equal(t, []operation.Kind{operation.KindCodesAccept, operation.KindOrderDiscounts}, kinds(ops))
	})

	t.Run("accept and product with order class", func(t *testing.T) {
		body := `[{
			"enteredDiscountCodesAccept": {"codes": [{"code": "X"}]},
			"productDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{
				"targets": [{"cartLine": {"id": "l1"}}], "value": {"percentage": {"value": 10}}}]}
		}]`
		ops, err := Operations(jsonResult(body), domain.Eligibility{Order: true})
		require.NoError(t, err)
		assert.Equal(t, []operation.Operation{operation.AcceptCodes("X")}, ops)
	})
}

func TestOperations_IneligibleMalformedIsDropped(t *testing.T) {
	tests := []struct {
		name string
		body string
		e    domain.Eligibility
	}{
		{
			name: "product with no candidates on order class",
			body: `[{"enteredDiscountCodesAccept": {"codes": [{"code": "SAVE20"}]}}, {"productDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": []}}]`,
			e:    domain.Eligibility{Order: true},
		},
		{
			name: "delivery with FIRST on cart classes",
			body: `[{"enteredDiscountCodesAccept": {"codes": [{"code": "SAVE20"}]}}, {"deliveryDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"deliveryGroup": {"id": "g"}}], "value": {"percentage": {"value": 1}}}]}}]`,
			e:    domain.Eligibility{Order: true, Product: true},
		},
		{
			name: "garbage under an ineligible key",
			body: `[{"enteredDiscountCodesAccept": {"codes": [{"code": "SAVE20"}]}, "orderDiscountsAdd": "nonsense"}]`,
			e:    domain.Eligibility{Delivery: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Operations(jsonResult(tt.body), tt.e)
			require.NoError(t, err)
			assert.Equal(t, []operation.Operation{operation.AcceptCodes("SAVE20")}, ops)
		})
	}
}

func TestOperations_ZeroCandidates(t *testing.T) {
	body := `[{"deliveryDiscountsAdd": {"selectionStrategy": "ALL", "candidates": []}}]`

	ops, err := Operations(jsonResult(body), domain.Eligibility{Delivery: true})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, operation.KindDeliveryDiscounts, ops[0].Kind)
	assert.Empty(t, ops[0].Candidates)
}

func TestOperations_LegacyNamesAndEnvelope(t *testing.T) {
	body := `{"operations": {
		"addProductDiscounts": {"selectionStrategy": "FIRST", "candidates": [{
			"targets": [{"cartLine": {"id": "l1"}}], "value": {"percentage": {"value": "7.5"}}}]},
		"addValidDiscountCodes": {"codes": [{"code": "OLD"}]}
	}}`
	s := body
	ops, err := Operations(&model.FetchResult{Status: 200, Body: &s}, domain.Eligibility{Product: true})
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, operation.KindCodesAccept, ops[0].Kind)
	assert.Equal(t, "7.5", ops[1].Candidates[0].Value.Amount.String())
}

func TestOperations_Errors(t *testing.T) {
	e := domain.Eligibility{Order: true, Product: true, Delivery: true}
	bad := "not json"
	empty := "[]"

	tests := []struct {
		name string
		fr   *model.FetchResult
		want error
	}{
		{name: "no fetch result", fr: nil, want: domain.ErrMissingFetchResult},
		{name: "no body", fr: &model.FetchResult{Status: 200}, want: domain.ErrMissingResponseBody},
		{name: "null json body", fr: &model.FetchResult{Status: 200, JSONBody: json.RawMessage("null")}, want: domain.ErrMissingResponseBody},
		{name: "invalid json", fr: &model.FetchResult{Status: 200, Body: &bad}, want: domain.ErrMalformedResponseBody},
		{name: "not a list", fr: jsonResult(`"hello"`), want: domain.ErrMalformedResponseBody},
		{name: "bad strategy", fr: jsonResult(`[{"deliveryDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"deliveryGroup": {"id": "g"}}], "value": {"percentage": {"value": 1}}}]}}]`), want: domain.ErrMalformedResponseBody},
		{name: "two-key target", fr: jsonResult(`[{"orderDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [{"orderSubtotal": {}, "cartLine": {"id": "x"}}], "value": {"percentage": {"value": 1}}}]}}]`), want: domain.ErrMalformedResponseBody},
		{name: "eligible empty targets", fr: jsonResult(`[{"productDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [], "value": {"percentage": {"value": 1}}}]}}]`), want: domain.ErrMalformedResponseBody},
		{name: "item not an object", fr: jsonResult(`[1]`), want: domain.ErrMalformedResponseBody},
		{name: "server error", fr: &model.FetchResult{Status: 500, Body: &empty}, want: domain.ErrMalformedResponseBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Operations(tt.fr, e)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidCodes(t *testing.T) {
	body := `["WELCOME10", "OTHER"]`
	codes, err := ValidCodes(&model.FetchResult{Status: 200, Body: &body})
	require.NoError(t, err)
	assert.Equal(t, []string{"WELCOME10", "OTHER"}, codes)

	codes, err = ValidCodes(&model.FetchResult{Status: 200, JSONBody: json.RawMessage(`[]`)})
	require.NoError(t, err)
	assert.Empty(t, codes)

	_, err = ValidCodes(nil)
	assert.ErrorIs(t, err, domain.ErrMissingFetchResult)

	_, err = ValidCodes(&model.FetchResult{Status: 200})
	assert.ErrorIs(t, err, domain.ErrMissingResponseBody)

	obj := `{"codes": 1}`
	_, err = ValidCodes(&model.FetchResult{Status: 200, Body: &obj})
	assert.ErrorIs(t, err, domain.ErrMalformedResponseBody)
}
