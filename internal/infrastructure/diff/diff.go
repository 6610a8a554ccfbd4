// Package diff reports what an input patch changed, as an RFC 7386 merge
// patch between the original and patched documents.
package diff

import (
	"bytes"
	"encoding/json"
	"errors"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

var errInvalidDocument = errors.New("diff: documents must be valid JSON")

type Differ struct{}

// Diff returns the merge patch turning before into after, and whether the
// two documents differ at all.
func (d *Differ) Diff(before, after []byte) ([]byte, bool, error) {
	if !json.Valid(before) || !json.Valid(after) {
		return nil, false, errInvalidDocument
	}
	delta, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, false, err
	}
	return delta, !bytes.Equal(bytes.TrimSpace(delta), []byte("{}")), nil
}
