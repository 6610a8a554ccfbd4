// Package fetch describes the single outbound request the host performs
// between the fetch and run phases.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/interfaces"
	"github.com/gowebpki/jcs"
)

type Builder struct {
	Mode     domain.FetchMode
	Endpoint domain.Endpoint
	Loader   interfaces.ConfigurationLoader
}

func NewBuilder(policy domain.Policy, loader interfaces.ConfigurationLoader) *Builder {
	return &Builder{Mode: policy.FetchMode, Endpoint: policy.Endpoint, Loader: loader}
}

// Build returns the request for the input's entered discount codes. In
// templated mode the request shape comes from the metafield configuration,
// in hardcoded mode from the deployment endpoint.
func (b *Builder) Build(ctx context.Context, in *model.Input) (*domain.HTTPRequest, error) {
	template, err := b.template(ctx, in)
	if err != nil {
		return nil, err
	}
	return BuildRequest(in.EnteredDiscountCodes, template)
}

func (b *Builder) template(ctx context.Context, in *model.Input) (*domain.HTTPRequest, error) {
	if b.Mode == domain.FetchHardcoded {
		return &domain.HTTPRequest{
			Headers: b.Endpoint.Headers,
			Method:  b.Endpoint.Method,
			Policy:  domain.HTTPRequestPolicy{ReadTimeoutMs: b.Endpoint.ReadTimeoutMs},
			URL:     b.Endpoint.URL,
		}, nil
	}

	cfg, err := b.Loader.Load(ctx, in.Metafield())
	if err != nil {
		return nil, err
	}
	if cfg.Request == nil {
		return nil, fmt.Errorf("%w: request template missing", domain.ErrConfigurationMalformed)
	}
	return cfg.Request, nil
}

type requestBody struct {
	EnteredDiscountCodes []string `json:"enteredDiscountCodes"`
}

// BuildRequest overlays the entered-codes body onto a copy of template. The
// string body is the canonical (RFC 8785) form of the JSON body.
func BuildRequest(enteredCodes []string, template *domain.HTTPRequest) (*domain.HTTPRequest, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: request template missing", domain.ErrConfigurationMalformed)
	}

	codes := append([]string{}, enteredCodes...)
	jsonBody, err := json.Marshal(requestBody{EnteredDiscountCodes: codes})
	if err != nil {
		return nil, err
	}
	canonical, err := jcs.Transform(jsonBody)
	if err != nil {
		return nil, fmt.Errorf("canonicalize body: %w", err)
	}
	body := string(canonical)

	req := &domain.HTTPRequest{
		Headers:  append([]domain.HTTPRequestHeader{}, template.Headers...),
		Method:   template.Method,
		Policy:   template.Policy,
		URL:      template.URL,
		Body:     &body,
		JSONBody: json.RawMessage(canonical),
	}
	if req.Method == "" {
		req.Method = domain.MethodPost
	}
	if req.Policy.ReadTimeoutMs <= 0 {
		req.Policy.ReadTimeoutMs = domain.DefaultReadTimeoutMs
	}
	return req, nil
}
