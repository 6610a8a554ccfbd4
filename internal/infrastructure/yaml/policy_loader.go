package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/interfaces"

	"gopkg.in/yaml.v3"
)

type PolicyLoader struct{}

func NewPolicyLoader() interfaces.PolicyLoader {
	return &PolicyLoader{}
}

// Load reads a deployment policy file. An empty path yields the default
// policy.
func (PolicyLoader) Load(path string) (domain.Policy, error) {
	if path == "" {
		return domain.DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Policy{}, err
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy. Unknown keys are rejected, missing keys
// take their defaults.
func ParsePolicy(data []byte) (domain.Policy, error) {
	var p domain.Policy
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return domain.Policy{}, fmt.Errorf("%w: %v", domain.ErrInvalidPolicy, err)
		}
	}
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return domain.Policy{}, err
	}
	return p, nil
}
