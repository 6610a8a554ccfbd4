package domain

import "errors"

// --- Evaluation errors ---
//
// All of these are terminal for an evaluation. Business-level "nothing
// applies" outcomes are never reported through them.
var (
	ErrConfigurationMissing   = errors.New("configuration missing")
	ErrConfigurationMalformed = errors.New("configuration malformed")
	ErrMissingFetchResult     = errors.New("missing fetch result")
	ErrMissingResponseBody    = errors.New("missing response body")
	ErrMalformedResponseBody  = errors.New("malformed response body")
	ErrMissingDeliveryGroup   = errors.New("no delivery groups found")
	ErrUnknownTarget          = errors.New("unknown target")
	ErrInvalidPolicy          = errors.New("invalid deployment policy")
)
