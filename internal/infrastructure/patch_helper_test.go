package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInputPatch(t *testing.T) {
	original := []byte(`{"discount": {"discountClasses": ["ORDER"]}, "enteredDiscountCodes": []}`)
	patch := []byte(`[
	  {"op": "add", "path": "/discount/discountClasses/-", "value": "SHIPPING"},
	  {"op": "replace", "path": "/enteredDiscountCodes", "value": ["FREESHIPPING"]}
	]`)

	out, err := ApplyInputPatch(original, patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"discount": {"discountClasses": ["ORDER", "SHIPPING"]}, "enteredDiscountCodes": ["FREESHIPPING"]}`, string(out))
}

func TestApplyInputPatch_Errors(t *testing.T) {
	_, err := ApplyInputPatch([]byte(`{}`), []byte(`{"op": "add"}`))
	assert.Error(t, err)

	_, err = ApplyInputPatch([]byte(`{}`), []byte(`[{"op": "remove", "path": "/missing"}]`))
	assert.Error(t, err)

	_, err = ApplyInputPatch([]byte(`{"a": 1}`), []byte(`[{"op": "replace", "path": "", "value": [1]}]`))
	assert.Error(t, err)
}
