// Package decode reads the fetched backend response back into operations.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/Victor-armando18/discount-function/internal/infrastructure/contract"
)

// Operations decodes a list of operation items and keeps, per item and in
// item order, every code acceptance and each discount operation whose
// category is eligible. Ineligible operations are dropped before they are
// validated, so their shape never fails the run.
func Operations(fr *model.FetchResult, e domain.Eligibility) ([]operation.Operation, error) {
	raw, err := payload(fr, true)
	if err != nil {
		return nil, err
	}

	items, err := splitItems(raw)
	if err != nil {
		return nil, err
	}

	var list []map[string]json.RawMessage
	if err := json.Unmarshal(items, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponseBody, err)
	}

	kept := make([]map[string]json.RawMessage, 0, len(list))
	for _, item := range list {
		kept = append(kept, eligibleOnly(item, e))
	}
	filtered, err := json.Marshal(kept)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponseBody, err)
	}
	if err := contract.Validate(contract.Operations, filtered); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponseBody, err)
	}

	out := []operation.Operation{}
	for i, item := range kept {
		body, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", domain.ErrMalformedResponseBody, i, err)
		}
		ops, err := operation.DecodeItem(body)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", domain.ErrMalformedResponseBody, i, err)
		}
		out = append(out, ops...)
	}
	return out, nil
}

// eligibleOnly keeps the keys of one item that name a code acceptance or an
// eligible discount kind. Unknown keys are dropped.
func eligibleOnly(item map[string]json.RawMessage, e domain.Eligibility) map[string]json.RawMessage {
	kept := make(map[string]json.RawMessage, len(item))
	for name, body := range item {
		kind, ok := operation.KindOf(name)
		if !ok {
			continue
		}
		if cat, ok := domain.CategoryOf(kind); ok && !e.Allows(cat) {
			continue
		}
		kept[name] = body
	}
	return kept
}

// ValidCodes decodes a flat list of valid discount codes.
func ValidCodes(fr *model.FetchResult) ([]string, error) {
	raw, err := payload(fr, false)
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, fmt.Errorf("%w: expected a list of codes: %v", domain.ErrMalformedResponseBody, err)
	}
	return codes, nil
}

// payload picks the response document. preferJSON selects jsonBody over the
// string body when both are present.
func payload(fr *model.FetchResult, preferJSON bool) ([]byte, error) {
	if fr == nil {
		return nil, domain.ErrMissingFetchResult
	}
	if fr.Status != 0 && (fr.Status < 200 || fr.Status > 299) {
		return nil, fmt.Errorf("%w: backend answered with status %d", domain.ErrMalformedResponseBody, fr.Status)
	}

	var jsonBody, body []byte
	if len(fr.JSONBody) > 0 && !bytes.Equal(bytes.TrimSpace(fr.JSONBody), []byte("null")) {
		jsonBody = fr.JSONBody
	}
	if fr.Body != nil {
		body = []byte(*fr.Body)
	}

	first, second := body, jsonBody
	if preferJSON {
		first, second = jsonBody, body
	}
	switch {
	case first != nil:
		return first, nil
	case second != nil:
		return second, nil
	}
	return nil, domain.ErrMissingResponseBody
}

// splitItems accepts either a bare item list or an object wrapping it under
// "operations". A single wrapped item is promoted to a list.
func splitItems(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrMalformedResponseBody)
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var envelope struct {
		Operations json.RawMessage `json:"operations"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponseBody, err)
	}
	ops := bytes.TrimSpace(envelope.Operations)
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no operations", domain.ErrMalformedResponseBody)
	}
	if ops[0] == '{' {
		return append(append([]byte{'['}, ops...), ']'), nil
	}
	return ops, nil
}
