package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Configuration(t *testing.T) {
	assert.NoError(t, Validate(Configuration, []byte(`{}`)))
	assert.NoError(t, Validate(Configuration, []byte(`{"orderPercentage": "12.5", "deliveryPercentage": 3, "extra": true}`)))
	assert.NoError(t, Validate(Configuration, []byte(`{"request": {"url": "https://x", "method": "POST", "headers": [{"name": "a", "value": "b"}]}}`)))

	assert.Error(t, Validate(Configuration, []byte(`{"orderPercentage": "1e3"}`)))
	assert.Error(t, Validate(Configuration, []byte(`{"excludedVariantIds": [""]}`)))
	assert.Error(t, Validate(Configuration, []byte(`{"request": {"url": "https://x", "method": "POST", "policy": {"readTimeoutMs": -1}}}`)))
	assert.Error(t, Validate(Configuration, []byte(`{`)))
}

func TestValidate_Request(t *testing.T) {
	assert.NoError(t, Validate(Request, []byte(`{"url": "https://x", "method": "GET"}`)))
	assert.Error(t, Validate(Request, []byte(`{"url": "", "method": "GET"}`)))
}

func TestValidate_Operations(t *testing.T) {
	assert.NoError(t, Validate(Operations, []byte(`[]`)))
	assert.NoError(t, Validate(Operations, []byte(`[{"enteredDiscountCodesAccept": {"codes": [{"code": "A"}]}}, {"unknown": 1}]`)))

	assert.Error(t, Validate(Operations, []byte(`{}`)))
	assert.Error(t, Validate(Operations, []byte(`[{"orderDiscountsAdd": {"selectionStrategy": "SOME", "candidates": []}}]`)))
	assert.Error(t, Validate(Operations, []byte(`[{"orderDiscountsAdd": {"selectionStrategy": "FIRST", "candidates": [{"targets": [], "value": {"percentage": {"value": 1}}}]}}]`)))
}

func TestValidate_UnknownSchema(t *testing.T) {
	assert.Error(t, Validate(Schema("nope.json"), []byte(`{}`)))
}

func TestValidate_DecodesNumbersExactly(t *testing.T) {
	assert.NoError(t, Validate(Configuration, []byte(`{"orderPercentage": 12.500000000000000000001}`)))
	assert.NoError(t, Validate(Request, []byte(`{"url": "https://x", "method": "POST", "policy": {"readTimeoutMs": 2000}}`)))
}

func TestValidate_RejectsTrailingData(t *testing.T) {
	assert.Error(t, Validate(Configuration, []byte(`{} {}`)))
	assert.NoError(t, Validate(Configuration, []byte("{}\n")))
}
