package infrastructure

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyInputPatch applies an RFC 6902 patch to a raw input envelope. The
// result must still be a JSON object.
func ApplyInputPatch(original []byte, patchData []byte) ([]byte, error) {
	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	modified, err := patch.Apply(original)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(modified, &probe); err != nil {
		return nil, fmt.Errorf("patched input is not an object: %w", err)
	}
	return modified, nil
}
