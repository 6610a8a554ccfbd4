package domain

import (
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain/operation"
)

// RunMode selects how the run targets produce operations.
type RunMode string

const (
	// RunDirect builds candidates from the metafield configuration only.
	RunDirect RunMode = "direct"
	// RunOperations forwards operations fetched from the backend.
	RunOperations RunMode = "operations"
	// RunValidCodes reads a list of valid codes from the backend and builds
	// code-associated candidates from the metafield configuration.
	RunValidCodes RunMode = "validCodes"
)

type FetchMode string

const (
	FetchTemplated FetchMode = "templated"
	FetchHardcoded FetchMode = "hardcoded"
)

type DeliveryTargeting string

const (
	DeliveryAllGroups  DeliveryTargeting = "allGroups"
	DeliveryFirstGroup DeliveryTargeting = "firstGroup"
)

// Endpoint is the fixed request used by hardcoded fetch mode.
type Endpoint struct {
	URL           string              `yaml:"url"`
	Method        HTTPRequestMethod   `yaml:"method"`
	ReadTimeoutMs int                 `yaml:"readTimeoutMs"`
	Headers       []HTTPRequestHeader `yaml:"headers"`
}

// Policy pins the per-deployment behaviour of the function.
type Policy struct {
	RunMode           RunMode              `yaml:"runMode"`
	FetchMode         FetchMode            `yaml:"fetchMode"`
	DeliveryTargeting DeliveryTargeting    `yaml:"deliveryTargeting"`
	WireFormat        operation.WireFormat `yaml:"wireFormat"`
	Endpoint          Endpoint             `yaml:"endpoint"`
}

const DefaultReadTimeoutMs = 2000

func DefaultPolicy() Policy {
	return Policy{
		RunMode:           RunDirect,
		FetchMode:         FetchTemplated,
		DeliveryTargeting: DeliveryAllGroups,
		WireFormat:        operation.FormatCurrent,
		Endpoint: Endpoint{
			URL:           "https://example.com/discount-function-network-access",
			Method:        MethodPost,
			ReadTimeoutMs: DefaultReadTimeoutMs,
			Headers: []HTTPRequestHeader{
				{Name: "accept", Value: "application/json"},
			},
		},
	}
}

// WithDefaults fills zero-valued fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.RunMode == "" {
		p.RunMode = d.RunMode
	}
	if p.FetchMode == "" {
		p.FetchMode = d.FetchMode
	}
	if p.DeliveryTargeting == "" {
		p.DeliveryTargeting = d.DeliveryTargeting
	}
	if p.WireFormat == "" {
		p.WireFormat = d.WireFormat
	}
	if p.Endpoint.URL == "" {
		p.Endpoint.URL = d.Endpoint.URL
	}
	if p.Endpoint.Method == "" {
		p.Endpoint.Method = d.Endpoint.Method
	}
	if p.Endpoint.ReadTimeoutMs == 0 {
		p.Endpoint.ReadTimeoutMs = d.Endpoint.ReadTimeoutMs
	}
	if p.Endpoint.Headers == nil {
		p.Endpoint.Headers = d.Endpoint.Headers
	}
	return p
}

func (p Policy) Validate() error {
	switch p.RunMode {
	case RunDirect, RunOperations, RunValidCodes:
	default:
		return fmt.Errorf("%w: runMode %q", ErrInvalidPolicy, p.RunMode)
	}
	switch p.FetchMode {
	case FetchTemplated, FetchHardcoded:
	default:
		return fmt.Errorf("%w: fetchMode %q", ErrInvalidPolicy, p.FetchMode)
	}
	switch p.DeliveryTargeting {
	case DeliveryAllGroups, DeliveryFirstGroup:
	default:
		return fmt.Errorf("%w: deliveryTargeting %q", ErrInvalidPolicy, p.DeliveryTargeting)
	}
	if !p.WireFormat.Valid() {
		return fmt.Errorf("%w: wireFormat %q", ErrInvalidPolicy, p.WireFormat)
	}
	if p.Endpoint.Method != MethodGet && p.Endpoint.Method != MethodPost {
		return fmt.Errorf("%w: endpoint method %q", ErrInvalidPolicy, p.Endpoint.Method)
	}
	if p.Endpoint.ReadTimeoutMs <= 0 {
		return fmt.Errorf("%w: endpoint readTimeoutMs must be positive", ErrInvalidPolicy)
	}
	return nil
}
